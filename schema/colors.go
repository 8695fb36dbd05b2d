package schema

// Colour palettes for chart series, darkest first. Values are hex without the leading '#'.
var (
	Reds  = []string{"b71c1c", "d32f2f", "f44336", "e57373", "ffcdd2"}
	Blues = []string{"1565c0", "1e88e5", "42a5f5", "90caf9", "bbdefb"}
)

// HexColor prefixes a palette entry with '#'.
func HexColor(c string) string {
	return "#" + c
}
