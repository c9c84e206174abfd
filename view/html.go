package view

import (
	"bytes"
	"io"
	"strconv"

	"github.com/ananthakrishna-hs/patchstep/encode"
	"github.com/ananthakrishna-hs/patchstep/format"
	"github.com/ananthakrishna-hs/patchstep/ir"
	"github.com/ananthakrishna-hs/patchstep/session"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const pageStyle = `
body { font-family: sans-serif; margin: 0; }
.field-container { display: flex; min-height: 100vh; padding: 1em; box-sizing: border-box; }
.object-field, .patch-field { flex: 1; overflow: auto; }
.object-field textarea, .patch-field textarea { width: 100%; height: 90vh; }
.buttons-container { display: flex; flex-direction: column; padding: 0 1em; }
.operation { border: 1px solid #ccc; margin-bottom: .5em; padding: .25em; }
.operation.selected { border-color: #36c; background: #eef3ff; }
pre { margin: 0; }
`

// HTML writes a standalone page showing st in two panes, the editor and,
// while Active, the compiled document next to the pending operations.  The
// page is a snapshot: its controls are rendered but inert.
func HTML(w io.Writer, st session.State) error {
	doc, err := Page(st)
	if err != nil {
		return err
	}
	return html.Render(w, doc)
}

// Page builds the node tree written by HTML.
func Page(st session.State) (*html.Node, error) {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	htmlNode := elem(atom.Html)
	root.AppendChild(htmlNode)

	head := elem(atom.Head)
	head.AppendChild(elem(atom.Meta, attr("charset", "utf-8")))
	title := "patchstep"
	if st.ID != "" {
		title += " " + st.ID
	}
	head.AppendChild(withText(elem(atom.Title), title))
	head.AppendChild(withText(elem(atom.Style), pageStyle))
	htmlNode.AppendChild(head)

	body := elem(atom.Body)
	htmlNode.AppendChild(body)
	body.AppendChild(editor(st))
	if st.Phase == session.Active && st.Queue != nil {
		ops, err := operations(st)
		if err != nil {
			return nil, err
		}
		body.AppendChild(ops)
	}
	return root, nil
}

func editor(st session.State) *html.Node {
	main := elem(atom.Main, attr("id", "editor"), attr("class", "field-container"))
	locked := st.Phase == session.Active
	main.AppendChild(textarea("object-field", st.BaseText, locked))
	main.AppendChild(buttons(st, Start, Clear))
	main.AppendChild(textarea("patch-field", st.PatchText, locked))
	return main
}

func operations(st session.State) (*html.Node, error) {
	q := st.Queue
	main := elem(atom.Main, attr("id", "operations"), attr("class", "field-container"))

	docSection := elem(atom.Section, attr("class", "object-field"))
	tree, err := treeNode(q.Compiled)
	if err != nil {
		return nil, err
	}
	docSection.AppendChild(tree)
	main.AppendChild(docSection)

	main.AppendChild(buttons(st, Reset, ApplyNext, Apply, Reject, Deselect))

	opSection := elem(atom.Section, attr("class", "patch-field"))
	for i, op := range q.Pending {
		class := "operation"
		if q.Selection.Is(i) {
			class += " selected"
		}
		div := elem(atom.Div, attr("class", class), attr("data-index", strconv.Itoa(i)))
		tree, err := treeNode(op.Document())
		if err != nil {
			return nil, err
		}
		div.AppendChild(tree)
		opSection.AppendChild(div)
	}
	main.AppendChild(opSection)
	return main, nil
}

// buttons renders the candidates that are on offer in st.
func buttons(st session.State, candidates ...Affordance) *html.Node {
	div := elem(atom.Div, attr("class", "buttons-container"))
	for _, a := range candidates {
		if !Offers(st, a) {
			continue
		}
		div.AppendChild(withText(elem(atom.Button, attr("disabled", ""), attr("data-action", string(a))), buttonLabel(a)))
	}
	return div
}

func buttonLabel(a Affordance) string {
	switch a {
	case ApplyNext:
		return "Apply Next >>"
	default:
		s := string(a)
		return string(s[0]-'a'+'A') + s[1:]
	}
}

func textarea(class, text string, disabled bool) *html.Node {
	ta := elem(atom.Textarea)
	if disabled {
		ta.Attr = append(ta.Attr, attr("disabled", ""))
	}
	wrap := elem(atom.Div, attr("class", class))
	wrap.AppendChild(withText(ta, text))
	return wrap
}

func treeNode(d ir.Document) (*html.Node, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(d, buf, encode.EncodeFormat(format.TreeFormat)); err != nil {
		return nil, err
	}
	return withText(elem(atom.Pre, attr("class", "tree")), buf.String()), nil
}

func elem(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     attrs,
	}
}

func attr(k, v string) html.Attribute {
	return html.Attribute{Key: k, Val: v}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return n
}
