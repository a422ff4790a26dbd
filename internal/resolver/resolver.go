// Package resolver answers profession lookups against the loaded reference
// tables. It holds no mutable state after construction and is safe for
// concurrent use.
package resolver

import (
	"fmt"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sells-group/robot-exposure/internal/dataset"
	"github.com/sells-group/robot-exposure/internal/model"
)

var (
	// ErrUnknownProfession is returned for a selection that is not a key of
	// the matching table. Selectors are fed from Professions, so this is a
	// caller bug or a stale client.
	ErrUnknownProfession = eris.New("resolver: unknown profession")

	// ErrUnknownApplication is returned for an application label missing
	// from the classification table.
	ErrUnknownApplication = eris.New("resolver: unknown application")
)

// Selection is the user input of one dashboard evaluation.
type Selection struct {
	Profession  model.Optional[string]
	Application model.Optional[string]
}

// Resolution carries every derived value. Fields are absent when no
// profession is selected, so "unknown" never reads as false or zero.
type Resolution struct {
	Profession    model.Optional[string] `json:"profession" yaml:"profession"`
	Exposed       model.Optional[bool]   `json:"exposed_to_robot" yaml:"exposed_to_robot"`
	Complementary model.Optional[bool]   `json:"complementary" yaml:"complementary"`
	IFRClass      model.Optional[int]    `json:"ifr_class" yaml:"ifr_class"`
	Application   model.Optional[string] `json:"application_area" yaml:"application_area"`

	// Chart selection: the application category highlighted in the
	// installation chart and its class.
	ChartApplication model.Optional[string] `json:"chart_application" yaml:"chart_application"`
	ChartClass       model.Optional[int]    `json:"chart_class" yaml:"chart_class"`
}

// Resolver indexes a Reference for lookups.
type Resolver struct {
	ref *dataset.Reference

	byDesc     map[string]model.ProfessionRecord
	ordered    []string
	sorted     []string
	folded     map[string]string
	labels     map[int]string
	classes    map[string]int
	apps       []model.IFRClassification
	duplicates int
}

// New indexes ref. For a description appearing more than once the first
// row wins. An application label shared by several classes is offered once
// per class, suffixed with the class code.
func New(ref *dataset.Reference) *Resolver {
	r := &Resolver{
		ref:     ref,
		byDesc:  make(map[string]model.ProfessionRecord, len(ref.Professions)),
		folded:  make(map[string]string, len(ref.Professions)),
		labels:  make(map[int]string, len(ref.Classifications)),
		classes: make(map[string]int, len(ref.Classifications)),
	}

	for _, p := range ref.Professions {
		if _, dup := r.byDesc[p.Description]; dup {
			r.duplicates++
			continue
		}
		r.byDesc[p.Description] = p
		r.ordered = append(r.ordered, p.Description)
		r.folded[p.Description] = fold(p.Description)
	}
	r.sorted = slices.Clone(r.ordered)
	collate.New(language.Italian).SortStrings(r.sorted)

	shared := make(map[string]int)
	for _, c := range ref.Classifications {
		if !model.IsValidIFRClass(c.Class) {
			continue
		}
		if _, ok := r.labels[c.Class]; ok {
			continue
		}
		r.labels[c.Class] = c.ApplicationArea
		shared[c.ApplicationArea]++
	}
	for class, label := range r.labels {
		option := label
		if shared[label] > 1 {
			option = fmt.Sprintf("%s (%d)", label, class)
		}
		r.classes[option] = class
		r.apps = append(r.apps, model.IFRClassification{Class: class, ApplicationArea: option})
	}
	slices.SortFunc(r.apps, func(a, b model.IFRClassification) int { return a.Class - b.Class })

	if r.duplicates > 0 {
		zap.L().Warn("resolver: duplicate profession descriptions, first row wins",
			zap.Int("duplicates", r.duplicates),
		)
	}
	return r
}

// Reference returns the indexed tables.
func (r *Resolver) Reference() *dataset.Reference { return r.ref }

// Duplicates returns how many rows were shadowed by an earlier row with the
// same description.
func (r *Resolver) Duplicates() int { return r.duplicates }

// Professions returns the selectable descriptions in table order.
func (r *Resolver) Professions() []string {
	return slices.Clone(r.ordered)
}

// SortedProfessions returns the selectable descriptions in Italian
// collation order.
func (r *Resolver) SortedProfessions() []string {
	return slices.Clone(r.sorted)
}

// Profession returns the record for desc.
func (r *Resolver) Profession(desc string) (model.ProfessionRecord, bool) {
	p, ok := r.byDesc[desc]
	return p, ok
}

// Label returns the application label of an IFR class.
func (r *Resolver) Label(class int) (string, bool) {
	l, ok := r.labels[class]
	return l, ok
}

// Labels returns a copy of the class to label mapping.
func (r *Resolver) Labels() map[int]string {
	out := make(map[int]string, len(r.labels))
	for k, v := range r.labels {
		out[k] = v
	}
	return out
}

// Applications returns the application selector options ordered by IFR
// class. Each option selects exactly one class.
func (r *Resolver) Applications() []model.IFRClassification {
	return slices.Clone(r.apps)
}

// DefaultApplication is the first application category, the initial value
// of the application selector.
func (r *Resolver) DefaultApplication() model.Optional[string] {
	if len(r.apps) == 0 {
		return model.None[string]()
	}
	return model.Some(r.apps[0].ApplicationArea)
}

// ClassForApplication returns the IFR class of an application selector
// option.
func (r *Resolver) ClassForApplication(label string) (int, bool) {
	c, ok := r.classes[label]
	return c, ok
}

// Resolve evaluates sel against the reference tables.
func (r *Resolver) Resolve(sel Selection) (Resolution, error) {
	var res Resolution

	app := sel.Application
	if !app.Valid() {
		app = r.DefaultApplication()
	}
	if label, ok := app.Get(); ok {
		class, found := r.ClassForApplication(label)
		if !found {
			return Resolution{}, eris.Wrapf(ErrUnknownApplication, "%q", label)
		}
		res.ChartApplication = app
		res.ChartClass = model.Some(class)
	}

	desc, ok := sel.Profession.Get()
	if !ok {
		return res, nil
	}

	p, found := r.byDesc[desc]
	if !found {
		return Resolution{}, eris.Wrapf(ErrUnknownProfession, "%q", desc)
	}

	res.Profession = model.Some(p.Description)
	res.Exposed = model.Some(p.ExposedToRobot)
	res.Complementary = model.Some(p.Complementary)
	res.IFRClass = p.UnifiedIFRClass
	if class, ok := p.UnifiedIFRClass.Get(); ok {
		if label, ok := r.labels[class]; ok && label != "" {
			res.Application = model.Some(label)
		}
	}
	return res, nil
}
