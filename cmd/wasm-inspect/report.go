package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-core/engine"
	"github.com/wippyai/wasm-core/runtime"
	"github.com/wippyai/wasm-core/wasm"
)

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	fn      lipgloss.Style
	typ     lipgloss.Style
	dim     lipgloss.Style
	ok      lipgloss.Style
	bad     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		heading: lipgloss.NewStyle().Bold(true),
		fn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		typ:     lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

type funcEntry struct {
	index   uint32
	typeIdx uint32
	inst    *runtime.InternalFuncInst
}

func (f funcEntry) signature() string {
	return f.inst.Type.String()
}

// matches reports whether the filter text selects this function, by index
// or by a substring of its signature.
func (f funcEntry) matches(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	if fmt.Sprint(f.index) == q {
		return true
	}
	return strings.Contains(f.signature(), q)
}

type report struct {
	filename string
	size     int
	version  uint32
	types    []wasm.FuncType
	funcs    []funcEntry
	customs  []wasm.CustomSection
	skipped  []wasm.SkippedSection
	verdict  *engine.Verdict
}

func buildReport(filename string, size int, m *wasm.Module, store *runtime.Store, filter []uint32) *report {
	r := &report{
		filename: filename,
		size:     size,
		version:  m.Version,
		types:    m.Types,
		customs:  m.Customs,
		skipped:  m.Skipped,
	}
	for i, fi := range store.Funcs {
		idx := uint32(i)
		if filter != nil && !slices.Contains(filter, idx) {
			continue
		}
		inst, ok := fi.(*runtime.InternalFuncInst)
		if !ok {
			continue
		}
		r.funcs = append(r.funcs, funcEntry{index: idx, typeIdx: m.Functions[i], inst: inst})
	}
	return r
}

func (r *report) render(w io.Writer, st styles) {
	fmt.Fprintf(w, "%s %s (%d bytes, version %d)\n\n", st.title.Render("wasm-inspect"), r.filename, r.size, r.version)

	fmt.Fprintln(w, st.heading.Render(fmt.Sprintf("Types (%d)", len(r.types))))
	for i, ft := range r.types {
		fmt.Fprintf(w, "  [%d] %s\n", i, st.typ.Render(ft.String()))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.heading.Render(fmt.Sprintf("Functions (%d)", len(r.funcs))))
	for _, f := range r.funcs {
		writeFunc(w, st, f)
	}

	if len(r.customs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.heading.Render(fmt.Sprintf("Custom sections (%d)", len(r.customs))))
		for _, cs := range r.customs {
			fmt.Fprintf(w, "  %q %s\n", cs.Name, st.dim.Render(fmt.Sprintf("%d bytes", len(cs.Data))))
		}
	}

	if len(r.skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.heading.Render(fmt.Sprintf("Skipped sections (%d)", len(r.skipped))))
		for _, s := range r.skipped {
			fmt.Fprintf(w, "  %s %s\n", s.ID, st.dim.Render(fmt.Sprintf("at 0x%x, %d bytes", s.Offset, s.Size)))
		}
	}

	if r.verdict != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.heading.Render("Verify"))
		writeVerdict(w, st, r.verdict)
	}
}

func writeFunc(w io.Writer, st styles, f funcEntry) {
	fmt.Fprintf(w, "  %s %s %s\n",
		st.fn.Render(fmt.Sprintf("func[%d]", f.index)),
		st.dim.Render(fmt.Sprintf("type %d", f.typeIdx)),
		st.typ.Render(f.signature()))
	if len(f.inst.Code.Locals) > 0 {
		names := make([]string, len(f.inst.Code.Locals))
		for i, t := range f.inst.Code.Locals {
			names[i] = t.String()
		}
		fmt.Fprintf(w, "    locals: %s\n", st.typ.Render(strings.Join(names, ", ")))
	}
	for i, in := range f.inst.Code.Body {
		fmt.Fprintf(w, "    %s %s\n", st.dim.Render(fmt.Sprintf("%4d", i)), in)
	}
}

func writeVerdict(w io.Writer, st styles, v *engine.Verdict) {
	if v.Agree() {
		fmt.Fprintf(w, "  %s\n", st.ok.Render("wazero agrees"))
		return
	}
	fmt.Fprintf(w, "  %s\n", st.bad.Render("wazero disagrees"))
	fmt.Fprintf(w, "    ours:   %s\n", errString(v.Ours))
	fmt.Fprintf(w, "    wazero: %s\n", errString(v.Reference))
	if v.Ours == nil && v.Reference == nil {
		fmt.Fprintf(w, "    custom sections: ours %v, wazero %v\n", v.Customs, v.RefCustoms)
	}
}

func errString(err error) string {
	if err == nil {
		return "accepted"
	}
	return err.Error()
}
