// Package display renders command output for the terminal: aligned tables
// for listings and highlighted warnings.
//
// All functions accept an io.Writer. Colors are opt-in per call so output
// written to files and pipes stays plain:
//
//	t := display.NewTable("PATH", "TITLE")
//	t.AddRow("finance/2024", "2024")
//	t.Render(os.Stdout, display.IsTerminal(os.Stdout))
package display
