package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/gomoku/internal/app"
	"github.com/jaminalder/gomoku/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellClass": func(c domain.Cell) string {
			switch c {
			case domain.Black:
				return "black"
			case domain.White:
				return "white"
			default:
				return ""
			}
		},
		"occupied": func(c domain.Cell) bool { return c != domain.Empty },
		"add":      func(a, b int) int { return a + b },
		"mul":      func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Gomoku</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.board-row{display:flex}
.square{width:28px;height:28px;padding:0;background:#dcb35c;border:1px solid #8a6d2f}
.piece{display:inline-block;width:20px;height:20px;border-radius:50%}
.piece.black{background:#111}
.piece.white{background:#f5f5f5;border:1px solid #999}
.moves .current{font-weight:bold}
.winning-status{color:#b00;font-weight:bold}
</style>
</head><body>{{template "content" .}}</body></html>`))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Gomoku</h1>
<form action="/game" method="post"><button>New game</button></form>
{{if .}}<ul class="games">{{range .}}<li><a href="/game/{{.ID}}">{{.ID}}</a> {{.Status}}</li>{{end}}</ul>{{end}}`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Gomoku</h1>
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div hx-sse="swap:board">{{.BoardHTML}}</div>
</div>`))
	board := template.Must(template.New("board").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{if .Status.Winner}}
  <div class="status winning-status">{{.Status}}</div>
  {{else}}
  <div class="status">{{.Status}}</div>
  {{end}}
  <form class="grid" action="/game/{{.ID}}/play" hx-post="/game/{{.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
  {{range $r := iter $.Size}}
  <div class="board-row">
    {{range $c := iter $.Size}}{{$i := add (mul $r $.Size) $c}}{{$cell := index $.Board $i}}
    <button class="square" type="submit" name="i" value="{{$i}}"{{if or $.Over (occupied $cell)}} disabled{{end}}>{{if occupied $cell}}<span class="piece {{cellClass $cell}}"></span>{{end}}</button>
    {{end}}
  </div>
  {{end}}
  </form>
  <ol class="moves">
    {{range .Entries}}
    <li>
      <form action="/game/{{$.ID}}/jump" hx-post="/game/{{$.ID}}/jump" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="move" value="{{.Move}}">
        <button type="submit"{{if .Current}} class="current"{{end}}>{{.Label}}</button>
      </form>
    </li>
    {{end}}
  </ol>
  <form action="/game/{{.ID}}/reset" hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Reset</button>
  </form>
</div>
`

// boardData feeds boardTemplate.
type boardData struct {
	ID      string
	Size    int
	Board   domain.Board
	Status  domain.Status
	Over    bool
	Entries []domain.Entry
	Error   string
}

func newBoardData(v app.GameView, errMsg string) boardData {
	return boardData{
		ID:      v.ID,
		Size:    domain.Size,
		Board:   v.Board,
		Status:  v.Status,
		Over:    v.Status.Over(),
		Entries: v.Entries,
		Error:   errMsg,
	}
}
