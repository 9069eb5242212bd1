package mail

import (
	"fmt"
	"html"
	"strings"

	"readiness-quiz-service/internal/domain"
)

// ResultEmailParams feeds the result email renderer.
type ResultEmailParams struct {
	FirstName      string
	TotalPercent   int
	Level          domain.ScoreLevelInfo
	CategoryScores []domain.CategoryScore
	Analysis       *domain.NarrativeAnalysis
	BookingURL     string
}

// RenderResultEmail produces the HTML and plain-text bodies. User-provided
// strings are escaped in the HTML variant.
func RenderResultEmail(p ResultEmailParams) (htmlBody, textBody string) {
	return renderHTML(p), renderText(p)
}

func renderHTML(p ResultEmailParams) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html lang="de"><body style="margin:0;background:#0a0a0a;font-family:Arial,Helvetica,sans-serif;color:#e0e0e0;">`)
	b.WriteString(`<div style="max-width:600px;margin:0 auto;padding:32px 16px;">`)

	fmt.Fprintf(&b, `<h1 style="color:#ffffff;font-size:22px;">Hallo %s!</h1>`, html.EscapeString(p.FirstName))
	b.WriteString(`<p style="color:#b0b0b0;">Hier ist dein AI-Readiness Ergebnis:</p>`)

	fmt.Fprintf(&b, `<div style="background:#1a1a1a;border:1px solid #2a2a2a;border-radius:12px;padding:24px;text-align:center;">`+
		`<div style="font-size:40px;">%s</div>`+
		`<div style="font-size:36px;font-weight:700;color:#A0F0FF;">%d%%</div>`+
		`<div style="font-size:18px;color:#ffffff;font-weight:600;">%s</div>`+
		`<p style="color:#b0b0b0;font-size:14px;">%s</p>`+
		`</div>`,
		p.Level.Emoji, p.TotalPercent, html.EscapeString(p.Level.Title), html.EscapeString(p.Level.Description))

	if len(p.CategoryScores) > 0 {
		b.WriteString(`<h2 style="color:#ffffff;font-size:18px;margin-top:24px;">Deine Bereiche im Detail</h2>`)
		b.WriteString(`<table style="width:100%;border-collapse:collapse;">`)
		for _, cs := range p.CategoryScores {
			fmt.Fprintf(&b, `<tr><td style="padding:12px 16px;border-bottom:1px solid #2a2a2a;color:#e0e0e0;font-size:14px;">%s</td>`+
				`<td style="padding:12px 16px;border-bottom:1px solid #2a2a2a;width:120px;">`+
				`<div style="background:#2a2a2a;border-radius:4px;height:8px;overflow:hidden;">`+
				`<div style="background:linear-gradient(90deg,#A0F0FF,#60A5FA);height:100%%;width:%d%%;border-radius:4px;"></div></div></td>`+
				`<td style="padding:12px 16px;border-bottom:1px solid #2a2a2a;text-align:right;color:#A0F0FF;font-weight:600;font-size:14px;width:50px;">%d%%</td></tr>`,
				html.EscapeString(cs.Label), cs.Percentage, cs.Percentage)
		}
		b.WriteString(`</table>`)
	}

	if p.Analysis != nil && p.Analysis.Summary != "" {
		b.WriteString(`<div style="background:#1a1a1a;border:1px solid #2a2a2a;border-radius:12px;padding:24px;margin-top:24px;">`)
		b.WriteString(`<h2 style="margin:0 0 16px 0;color:#ffffff;font-size:18px;">Deine persönliche AI-Analyse</h2>`)
		fmt.Fprintf(&b, `<p style="color:#b0b0b0;font-size:14px;line-height:1.6;">%s</p>`, html.EscapeString(p.Analysis.Summary))
		writeHTMLList(&b, "✓ Eure Stärken", p.Analysis.Strengths)
		writeHTMLList(&b, "→ Hier unterstützen wir euch", p.Analysis.Improvements)
		writeHTMLList(&b, "Nächste Schritte", p.Analysis.NextSteps)
		b.WriteString(`</div>`)
	}

	if p.BookingURL != "" {
		fmt.Fprintf(&b, `<div style="text-align:center;margin-top:32px;">`+
			`<a href="%s" style="display:inline-block;background:#A0F0FF;color:#0a0a0a;font-weight:600;padding:14px 28px;border-radius:8px;text-decoration:none;">%s</a>`+
			`<p style="color:#b0b0b0;font-size:13px;margin-top:12px;">%s</p></div>`,
			p.BookingURL, html.EscapeString(p.Level.CTAText), html.EscapeString(p.Level.CTADescription))
	}

	b.WriteString(`<p style="color:#606060;font-size:12px;margin-top:32px;">Diese E-Mail wurde dir zugesendet, weil du dein Quiz-Ergebnis angefordert hast.</p>`)
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func writeHTMLList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, `<h3 style="margin:16px 0 12px 0;color:#A0F0FF;font-size:15px;">%s</h3><ul style="margin:0;padding-left:20px;">`, html.EscapeString(heading))
	for _, item := range items {
		fmt.Fprintf(b, `<li style="margin-bottom:8px;color:#e0e0e0;font-size:14px;line-height:1.5;">%s</li>`, html.EscapeString(item))
	}
	b.WriteString(`</ul>`)
}

func renderText(p ResultEmailParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hallo %s!\n\n", p.FirstName)
	fmt.Fprintf(&b, "Dein AI-Readiness Ergebnis: %d%% - %s %s\n", p.TotalPercent, p.Level.Title, p.Level.Emoji)
	fmt.Fprintf(&b, "%s\n\n", p.Level.Description)

	if len(p.CategoryScores) > 0 {
		b.WriteString("Deine Bereiche im Detail:\n")
		for _, cs := range p.CategoryScores {
			fmt.Fprintf(&b, "- %s: %d%%\n", cs.Label, cs.Percentage)
		}
		b.WriteString("\n")
	}

	if p.Analysis != nil && p.Analysis.Summary != "" {
		b.WriteString("Deine persönliche AI-Analyse:\n")
		fmt.Fprintf(&b, "%s\n\n", p.Analysis.Summary)
		writeTextList(&b, "Eure Stärken", p.Analysis.Strengths)
		writeTextList(&b, "Hier unterstützen wir euch", p.Analysis.Improvements)
		writeTextList(&b, "Nächste Schritte", p.Analysis.NextSteps)
	}

	if p.BookingURL != "" {
		fmt.Fprintf(&b, "%s: %s\n%s\n", p.Level.CTAText, p.BookingURL, p.Level.CTADescription)
	}

	return b.String()
}

func writeTextList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
