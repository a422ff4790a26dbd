package store

import (
	"time"

	"github.com/sells-group/robot-exposure/internal/dataset"
	"github.com/sells-group/robot-exposure/internal/model"
)

func testReference() *dataset.Reference {
	return &dataset.Reference{
		Professions: []model.ProfessionRecord{
			model.NewProfessionRecord("Idraulico", true, false, model.Some(120), model.Some(160)),
			model.NewProfessionRecord("Insegnante", false, false, model.None[int](), model.None[int]()),
			model.NewProfessionRecord("Tecnico della robotica", false, true, model.Some(190), model.None[int]()),
		},
		Classifications: []model.IFRClassification{
			{Class: 160, ApplicationArea: "Assemblaggio e smontaggio"},
			{Class: 190, ApplicationArea: "Altre applicazioni"},
		},
		Installations: []model.InstallationRecord{
			{Year: 2018, Class: 160, Count: model.Some(250.0)},
			{Year: 2019, Class: 160, Count: model.None[float64]()},
			{Year: 2018, Class: 190, Count: model.Some(12.5)},
		},
		LoadedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
