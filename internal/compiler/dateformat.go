package compiler

import "strings"

// strftimeToGoLayout translates the subset of chrono/strftime directives
// dataguard's DateBuilder accepts (e.g. "%Y-%m-%d") into a Go reference-time
// layout ("2006-01-02"), so internal/rules.CastStringToDate32 can use
// time.Parse directly. Unrecognized directives pass through unchanged.
var strftimeDirectives = map[string]string{
	"%Y": "2006",
	"%y": "06",
	"%m": "01",
	"%d": "02",
	"%H": "15",
	"%M": "04",
	"%S": "05",
	"%B": "January",
	"%b": "Jan",
	"%A": "Monday",
	"%a": "Mon",
	"%Z": "MST",
	"%%": "%",
}

func strftimeToGoLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			directive := format[i : i+2]
			if layout, ok := strftimeDirectives[directive]; ok {
				b.WriteString(layout)
				i++
				continue
			}
		}
		b.WriteByte(format[i])
	}
	return b.String()
}
