package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the jsonview banner to w, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{"    _                       _             ", "#818cf8"},
		{"   (_)___  ___  _ __ __   _(_) _____      __", "#a78bfa"},
		{"   | / __|/ _ \\| '_ \\\\ \\ / / |/ _ \\ \\ /\\ / /", "#c084fc"},
		{"   | \\__ \\ (_) | | | |\\ V /| |  __/\\ V  V / ", "#e879f9"},
		{"  _/ |___/\\___/|_| |_| \\_/ |_|\\___| \\_/\\_/  ", "#f472b6"},
		{" |__/                                       ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
