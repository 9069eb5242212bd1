package narrative

import (
	"testing"
)

func TestParseResponseExtractsEmbeddedJSON(t *testing.T) {
	blob := "Hier ist deine Analyse:\n```json\n" +
		`{"summary":"Gute Basis","strengths":["S1","S2"],"improvements":["I1"],"nextSteps":["N1","N2","N3","N4"],"problemAnalysis":"Machbar mit n8n"}` +
		"\n```\nViel Erfolg!"

	analysis := ParseResponse(blob)
	if analysis.Summary != "Gute Basis" {
		t.Fatalf("summary: %q", analysis.Summary)
	}
	if len(analysis.Strengths) != 2 || analysis.Strengths[0] != "S1" {
		t.Fatalf("strengths: %v", analysis.Strengths)
	}
	if len(analysis.NextSteps) != 3 {
		t.Fatalf("next steps must be capped at 3, got %v", analysis.NextSteps)
	}
	if analysis.ProblemAnalysis != "Machbar mit n8n" {
		t.Fatalf("problem analysis: %q", analysis.ProblemAnalysis)
	}
}

func TestParseResponseNullProblemAnalysis(t *testing.T) {
	blob := `{"summary":"ok","strengths":[],"improvements":[],"nextSteps":[],"problemAnalysis":null}`

	analysis := ParseResponse(blob)
	if analysis.ProblemAnalysis != "" {
		t.Fatalf("null must map to empty, got %q", analysis.ProblemAnalysis)
	}
	if analysis.Strengths == nil || analysis.Improvements == nil || analysis.NextSteps == nil {
		t.Fatalf("lists must never be nil: %+v", analysis)
	}
}

func TestParseResponsePlainTextSections(t *testing.T) {
	blob := `Ihr seid auf einem guten Weg.
Vieles passt schon.

Eure Stärken:
- Zentrale Datenhaltung
- Motiviertes Team

Hier könnt ihr noch nachbessern:
• Tool-Integration

Nächste Schritte:
* Erstgespräch buchen
* Prozesse dokumentieren`

	analysis := ParseResponse(blob)
	if analysis.Summary == "" {
		t.Fatalf("expected a summary from the leading lines")
	}
	if len(analysis.Strengths) != 2 || analysis.Strengths[0] != "Zentrale Datenhaltung" {
		t.Fatalf("strengths: %v", analysis.Strengths)
	}
	if len(analysis.Improvements) != 1 || analysis.Improvements[0] != "Tool-Integration" {
		t.Fatalf("improvements: %v", analysis.Improvements)
	}
	if len(analysis.NextSteps) != 2 {
		t.Fatalf("next steps: %v", analysis.NextSteps)
	}
}

func TestParseResponseUnstructuredTextStillYieldsSummary(t *testing.T) {
	analysis := ParseResponse("Einfach nur Prosa ohne Struktur.\nZweite Zeile.\nDritte Zeile.\nVierte Zeile.")
	if analysis.Summary == "" {
		t.Fatalf("expected summary from leading lines")
	}
	if len(analysis.Strengths) != 0 || len(analysis.Improvements) != 0 || len(analysis.NextSteps) != 0 {
		t.Fatalf("expected empty lists, got %+v", analysis)
	}
}

func TestParseResponseMalformedJSONFallsThrough(t *testing.T) {
	// Braces present but the span is not valid JSON; the plain-text tier takes over.
	blob := "Analyse {kaputt\nEure Stärken:\n- Irgendwas}"

	analysis := ParseResponse(blob)
	if len(analysis.Strengths) != 1 {
		t.Fatalf("expected plain-text tier to run, got %+v", analysis)
	}
}
