package approval

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/wippyai/typeddata/eip712"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#98FB98"))

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	approvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#90EE90"))

	rejectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Render returns the request as styled text: the domain properties in
// canonical order, then the message laid out by its declared types.
func Render(req *eip712.SignatureRequest) string {
	if req == nil {
		return rejectedStyle.Render("no signature request")
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Domain"))
	b.WriteString("\n")
	for _, p := range eip712.DomainProperties() {
		v, ok := req.Domain[p.Name]
		if !ok {
			continue
		}
		writeLine(&b, 1, p.Name, p.Type, formatValue(v))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Message"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(req.PrimaryType))
	b.WriteString("\n")
	renderStruct(&b, req.Types, req.PrimaryType, req.Message, 1)
	return b.String()
}

func renderStruct(b *strings.Builder, types map[string]eip712.FieldList, name string, value map[string]any, depth int) {
	fields, ok := types[name]
	if !ok {
		for _, key := range sortedKeys(value) {
			writeLine(b, depth, key, "", formatValue(value[key]))
		}
		return
	}
	for _, f := range fields {
		renderValue(b, types, f.Name, f.Type, value[f.Name], depth)
	}
}

func renderValue(b *strings.Builder, types map[string]eip712.FieldList, label, typ string, v any, depth int) {
	ft, err := eip712.ParseFieldType(typ)
	if err != nil {
		writeLine(b, depth, label, typ, formatValue(v))
		return
	}

	switch ft.Kind {
	case eip712.KindArray:
		items, _ := v.([]any)
		writeLine(b, depth, label, typ, fmt.Sprintf("%d items", len(items)))
		for i, item := range items {
			renderValue(b, types, fmt.Sprintf("[%d]", i), ft.Elem.String(), item, depth+1)
		}
	case eip712.KindStruct:
		nested, ok := v.(map[string]any)
		if !ok {
			writeLine(b, depth, label, typ, formatValue(v))
			return
		}
		writeLine(b, depth, label, typ, "")
		renderStruct(b, types, ft.Name, nested, depth+1)
	default:
		writeLine(b, depth, label, typ, formatValue(v))
	}
}

func writeLine(b *strings.Builder, depth int, label, typ, value string) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(fieldStyle.Render(label))
	if typ != "" {
		b.WriteString(" ")
		b.WriteString(typeStyle.Render(typ))
	}
	if value != "" {
		b.WriteString(": ")
		b.WriteString(valueStyle.Render(value))
	}
	b.WriteString("\n")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return x
	case common.Address:
		return x.Hex()
	case []byte:
		return hexutil.Encode(x)
	case *big.Int:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
