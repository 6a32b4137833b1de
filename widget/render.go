package widget

import (
	"fmt"
	"html"
	"strings"
)

const fontStack = "-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif"

// attr escapes a value for a double-quoted attribute. Ampersands are kept as-is
// so hrefs match the link scheme byte for byte; none of them start a named
// character reference.
var attr = strings.NewReplacer(`"`, "&#34;", "<", "&lt;", ">", "&gt;")

// Render emits the copy-paste markup for l.Target. Output depends only on l.
func Render(l Layout) string {
	if l.Target == TargetWebsite {
		return renderWebsite(l)
	}
	return renderEmail(l)
}

func renderEmail(l Layout) string {
	var b strings.Builder
	outer := "border-collapse:collapse;margin:0 auto;"
	if l.Card {
		outer += "background-color:#ffffff;border:1px solid #e5e7eb;border-radius:16px;"
	}
	fmt.Fprintf(&b, `<table role="presentation" cellpadding="0" cellspacing="0" border="0" align="center" style="%s">`, outer)

	fmt.Fprintf(&b, `<tr><td align="center" style="padding:%s;font-family:%s;font-size:%dpx;line-height:1.3;font-weight:700;color:%s;">%s</td></tr>`,
		cardPadding(l, "24px 24px 12px", "0 0 12px"), fontStack, l.Header.FontSize, l.Header.Color, html.EscapeString(l.Header.Text))

	fmt.Fprintf(&b, `<tr><td align="center" style="padding:%s;">`, cardPadding(l, "0 24px", "0"))
	b.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" border="0" style="border-collapse:collapse;"><tr>`)
	half := l.Gap / 2
	for _, c := range l.Row {
		fmt.Fprintf(&b, `<td align="center" style="padding:0 %dpx;">`, half)
		fmt.Fprintf(&b, `<a href="%s" target="_blank" style="text-decoration:none;">`, attr.Replace(c.Href))
		fmt.Fprintf(&b, `<img src="%s" width="%d" height="%d" alt="%s" style="display:block;border:0;outline:none;width:%dpx;height:%dpx;">`,
			attr.Replace(c.Image), c.Size, c.Size, html.EscapeString(c.Label), c.Size, c.Size)
		b.WriteString(`</a></td>`)
	}
	b.WriteString(`</tr></table></td></tr>`)

	fmt.Fprintf(&b, `<tr><td align="center" style="padding:%s;font-family:%s;font-size:11px;">`, cardPadding(l, "12px 24px 20px", "12px 0 0"), fontStack)
	writeAttribution(&b, l.Attribution)
	b.WriteString(`</td></tr></table>`)
	return b.String()
}

func renderWebsite(l Layout) string {
	var b strings.Builder
	outer := fmt.Sprintf("display:flex;flex-direction:column;align-items:center;gap:%dpx;font-family:%s;", l.Gap, fontStack)
	if l.Card {
		outer += "background-color:#ffffff;border-radius:16px;box-shadow:0 4px 14px rgba(0,0,0,0.08);padding:24px;max-width:max-content;margin:0 auto;"
	}
	fmt.Fprintf(&b, `<div style="%s">`, outer)

	fmt.Fprintf(&b, `<div style="font-size:%dpx;line-height:1.3;font-weight:700;color:%s;text-align:center;">%s</div>`,
		l.Header.FontSize, l.Header.Color, html.EscapeString(l.Header.Text))

	fmt.Fprintf(&b, `<div style="display:flex;flex-direction:row;justify-content:center;align-items:center;gap:%dpx;">`, l.Gap)
	for _, c := range l.Row {
		fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener" style="display:inline-flex;text-decoration:none;">`, attr.Replace(c.Href))
		fmt.Fprintf(&b, `<img src="%s" width="%d" height="%d" alt="%s" style="display:block;border:0;width:%dpx;height:%dpx;">`,
			attr.Replace(c.Image), c.Size, c.Size, html.EscapeString(c.Label), c.Size, c.Size)
		b.WriteString(`</a>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div style="font-size:11px;">`)
	writeAttribution(&b, l.Attribution)
	b.WriteString(`</div></div>`)
	return b.String()
}

func writeAttribution(b *strings.Builder, a Link) {
	fmt.Fprintf(b, `<a href="%s" target="_blank" style="color:#9ca3af;text-decoration:none;">%s</a>`,
		attr.Replace(a.Href), html.EscapeString(a.Text))
}

func cardPadding(l Layout, card, bare string) string {
	if l.Card {
		return card
	}
	return bare
}
