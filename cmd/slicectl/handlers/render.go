package handlers

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/slicectl/internal/slice"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	greenStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	redStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

// isInteractiveTTY reports whether stdout is a terminal. Replaced in tests.
var isInteractiveTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// printer applies styles only when writing to a terminal, so piped output
// stays free of escape sequences.
type printer struct {
	styled bool
}

func newPrinter() printer {
	return printer{styled: isInteractiveTTY()}
}

func (p printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p printer) state(state slice.ResourceState) string {
	switch state {
	case slice.ResourceActive:
		return p.render(greenStyle, string(state))
	case slice.ResourceError:
		return p.render(redStyle, string(state))
	default:
		return p.render(dimStyle, string(state))
	}
}

// renderConnections lists one SSH command per node, sorted by node name.
func renderConnections(p printer, s *slice.Slice, conns map[string]slice.ConnectionInfo) string {
	var b strings.Builder

	b.WriteString(p.render(titleStyle, fmt.Sprintf("Slice %s is %s", s.Name, s.State)))
	b.WriteString("\n")
	if s.Lease != nil {
		b.WriteString(p.render(dimStyle, fmt.Sprintf("Lease until %s", s.Lease.End.UTC().Format("2006-01-02 15:04 MST"))))
		b.WriteString("\n")
	}

	names := make([]string, 0, len(conns))
	for name := range conns {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&b, "  %-20s %s\n", name, conns[name].SSHCommand())
	}
	return b.String()
}

// renderInventory lists the nodes and networks of a slice.
func renderInventory(p printer, s *slice.Slice, nodes []slice.NodeInfo, networks []slice.NetworkInfo) string {
	var b strings.Builder

	b.WriteString(p.render(titleStyle, fmt.Sprintf("Slice %s (%s)", s.Name, s.ID)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  State: %s\n", s.State)
	if s.Lease != nil {
		fmt.Fprintf(&b, "  Lease: %s - %s\n",
			s.Lease.Start.UTC().Format("2006-01-02 15:04"), s.Lease.End.UTC().Format("2006-01-02 15:04"))
	}

	b.WriteString("\n")
	b.WriteString(p.render(sectionStyle, "Nodes"))
	b.WriteString("\n")
	if len(nodes) == 0 {
		b.WriteString(p.render(dimStyle, "  none"))
		b.WriteString("\n")
	}
	for _, n := range nodes {
		addr := n.Address
		if addr == "" {
			addr = "-"
		}
		fmt.Fprintf(&b, "  %-20s %-8s %-10s %-20s %-10s %s\n", n.Name, p.state(n.State), n.Site, n.Image, n.Flavor, addr)
		if n.Message != "" {
			b.WriteString(p.render(redStyle, "    "+n.Message))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(p.render(sectionStyle, "Networks"))
	b.WriteString("\n")
	if len(networks) == 0 {
		b.WriteString(p.render(dimStyle, "  none"))
		b.WriteString("\n")
	}
	for _, n := range networks {
		subnet := n.Subnet
		if subnet == "" {
			subnet = "-"
		}
		fmt.Fprintf(&b, "  %-20s %-11s %-3s %-8s %s\n", n.Name, n.Type, n.Type.Layer(), p.state(n.State), subnet)
	}
	return b.String()
}
