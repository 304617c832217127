// Package render implements the label output container.
package render

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"meal-labels/internal/domain"
)

const separator = "---"

var cardTmpl = template.Must(template.New("card").Parse(`<div class="meal-label">
<h3>{{.Heading}}</h3>
{{range .Lines}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>
{{end}}<hr>
</div>
`))

// node is one child of the container: either a text node or a card.
type node struct {
	text string
	card *domain.Card
	html template.HTML
}

// Container collects rendered output. It is safe for concurrent use; two
// uploads writing to the same container interleave exactly as their calls
// do, and whichever writes last wins.
type Container struct {
	mu    sync.Mutex
	nodes []node
}

// NewContainer creates an empty container
func NewContainer() *Container {
	return &Container{}
}

// Clear removes all content.
func (c *Container) Clear() {
	c.mu.Lock()
	c.nodes = nil
	c.mu.Unlock()
}

// SetText replaces all content with plain text.
func (c *Container) SetText(text string) {
	c.mu.Lock()
	c.nodes = []node{{text: text, html: template.HTML(template.HTMLEscapeString(text))}}
	c.mu.Unlock()
}

// AppendCard renders card and adds it after the current content.
func (c *Container) AppendCard(card domain.Card) {
	var buf bytes.Buffer
	markup := template.HTML("")
	if err := cardTmpl.Execute(&buf, card); err == nil {
		markup = template.HTML(buf.String())
	}
	cp := card
	c.mu.Lock()
	c.nodes = append(c.nodes, node{card: &cp, html: markup})
	c.mu.Unlock()
}

// HTML returns the escaped markup of the container.
func (c *Container) HTML() template.HTML {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sb strings.Builder
	for _, n := range c.nodes {
		sb.WriteString(string(n.html))
	}
	return template.HTML(sb.String())
}

// Text returns the textual content: the text node as is, each card as its
// heading and lines followed by a separator line.
func (c *Container) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sb strings.Builder
	for _, n := range c.nodes {
		if n.card == nil {
			sb.WriteString(n.text)
			continue
		}
		sb.WriteString(n.card.Heading)
		sb.WriteByte('\n')
		for _, line := range n.card.Lines {
			sb.WriteString(line.Text())
			sb.WriteByte('\n')
		}
		sb.WriteString(separator)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Cards returns the number of cards currently shown.
func (c *Container) Cards() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.nodes {
		if n.card != nil {
			count++
		}
	}
	return count
}
