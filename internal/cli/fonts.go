// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/flute/fontfallback"
	"github.com/gogpu/flute/intervaltree"
)

// builtinFonts registers Go Regular from its cmap followed by script
// families that stand in for platform fallback fonts.
func builtinFonts(r *fontfallback.Registry) error {
	if err := r.RegisterFontData("Go Regular", goregular.TTF); err != nil {
		return err
	}
	tables := []struct {
		name   string
		tables []*unicode.RangeTable
	}{
		{"Noto Sans", []*unicode.RangeTable{unicode.Latin, unicode.Greek, unicode.Cyrillic}},
		{"Noto Sans CJK", []*unicode.RangeTable{unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul}},
		{"Noto Sans Arabic", []*unicode.RangeTable{unicode.Arabic}},
		{"Noto Sans Devanagari", []*unicode.RangeTable{unicode.Devanagari}},
		{"Noto Sans Hebrew", []*unicode.RangeTable{unicode.Hebrew}},
		{"Noto Sans Thai", []*unicode.RangeTable{unicode.Thai}},
	}
	for _, t := range tables {
		if err := r.RegisterTable(t.name, t.tables...); err != nil {
			return err
		}
	}
	return r.Register("Noto Color Emoji",
		intervaltree.Range{Low: 0x1F300, High: 0x1FAFF},
		intervaltree.Range{Low: 0x2600, High: 0x27BF},
	)
}

func (c *CLI) fontsCommand() *cobra.Command {
	var extra []string

	cmd := &cobra.Command{
		Use:   "fonts <text>",
		Short: "Resolve fallback fonts for a string",
		Long: `Fonts picks the smallest set of registered fonts that covers the text and
lists the fonts available for each code point.

Additional fonts are registered from TrueType or OpenType files with
--font name=path; they rank after the built-in fonts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := fontfallback.New()
			if err := builtinFonts(reg); err != nil {
				return err
			}
			for _, arg := range extra {
				name, path, ok := strings.Cut(arg, "=")
				if !ok || name == "" || path == "" {
					return fmt.Errorf("invalid --font %q, want name=path", arg)
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := reg.RegisterFontData(name, data); err != nil {
					return err
				}
				c.Logger.Debug("registered font", "name", name, "ranges", len(reg.Coverage(name)))
			}
			c.printFonts(reg, args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&extra, "font", nil, "register a font file as `name=path` (repeatable)")

	return cmd
}

func (c *CLI) printFonts(reg *fontfallback.Registry, text string) {
	picked := reg.Resolve(text)
	printTitle(c.Out, fmt.Sprintf("%d fonts", len(picked)))
	for _, name := range picked {
		fmt.Fprintf(c.Out, "  %s\n", styleOpName.Render(name))
	}
	fmt.Fprintln(c.Out)

	seen := make(map[rune]bool)
	for _, r := range text {
		if seen[r] || unicode.IsSpace(r) {
			continue
		}
		seen[r] = true
		fonts := reg.FontsFor(r)
		label := styleState.Render("none")
		if len(fonts) > 0 {
			label = strings.Join(fonts, ", ")
		}
		fmt.Fprintf(c.Out, "%s %s  %s\n", styleKey.Render(fmt.Sprintf("U+%04X %c", r, r)), styleIndex.Render(fmt.Sprint(len(fonts))), label)
	}

	if missing := reg.Missing(text); len(missing) > 0 {
		fmt.Fprintln(c.Out)
		printWarning(c.Out, "%d code points have no font: %q", len(missing), string(missing))
	}
}
