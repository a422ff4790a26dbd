// Package present turns resolutions into dashboard output: text statements,
// installation chart configurations and terminal renderings.
package present

import (
	"fmt"

	"github.com/sells-group/robot-exposure/internal/resolver"
)

// StatementKind identifies a text block of the dashboard.
type StatementKind string

const (
	KindPrompt        StatementKind = "prompt"
	KindProfession    StatementKind = "profession"
	KindExposure      StatementKind = "exposure"
	KindComplementary StatementKind = "complementary"
	KindApplication   StatementKind = "application"
)

// Statement is one rendered line of the dashboard.
type Statement struct {
	Kind StatementKind `json:"kind" yaml:"kind"`
	Text string        `json:"text" yaml:"text"`
}

// Statements renders the visible text blocks for res. Blocks whose value is
// unknown are omitted; complementarity is shown only when true.
func Statements(res resolver.Resolution) []Statement {
	desc, ok := res.Profession.Get()
	if !ok {
		return []Statement{{Kind: KindPrompt, Text: "Seleziona una professione."}}
	}

	out := []Statement{{Kind: KindProfession, Text: "Professione selezionata: " + desc}}

	if exposed, ok := res.Exposed.Get(); ok {
		out = append(out, Statement{
			Kind: KindExposure,
			Text: "La professione è esposta ai robot: " + yesNo(exposed),
		})
	}

	if comp, ok := res.Complementary.Get(); ok && comp {
		out = append(out, Statement{Kind: KindComplementary, Text: "I robot sono complementari: Sì"})
	}

	if label, ok := res.Application.Get(); ok {
		text := "L'applicazione dei robot è: " + label
		if class, ok := res.IFRClass.Get(); ok {
			text = fmt.Sprintf("%s (%d)", text, class)
		}
		out = append(out, Statement{Kind: KindApplication, Text: text})
	}

	return out
}

func yesNo(b bool) string {
	if b {
		return "Sì"
	}
	return "No"
}
