// Package model defines the reference tables of the robot exposure dashboard.
package model

// ProfessionRecord is one row of the profession/robot matching table.
type ProfessionRecord struct {
	Description     string        `json:"description" yaml:"description"`
	ExposedToRobot  bool          `json:"exposed_to_robot" yaml:"exposed_to_robot"`
	Complementary   bool          `json:"complementary" yaml:"complementary"`
	IFRLevel1       Optional[int] `json:"ifr_level1_code" yaml:"ifr_level1_code"`
	IFRLevel2       Optional[int] `json:"ifr_level2_code" yaml:"ifr_level2_code"`
	UnifiedIFRClass Optional[int] `json:"unified_ifr_class" yaml:"unified_ifr_class"`
}

// NewProfessionRecord builds a record and derives its unified IFR class.
func NewProfessionRecord(desc string, exposed, complementary bool, l1, l2 Optional[int]) ProfessionRecord {
	return ProfessionRecord{
		Description:     desc,
		ExposedToRobot:  exposed,
		Complementary:   complementary,
		IFRLevel1:       l1,
		IFRLevel2:       l2,
		UnifiedIFRClass: UnifiedClass(l1, l2),
	}
}

// IFRClassification maps an IFR application code to its label.
type IFRClassification struct {
	Class           int    `json:"ifr_class" yaml:"ifr_class"`
	ApplicationArea string `json:"application_area" yaml:"application_area"`
}

// InstallationRecord is one (year, class) point of the installation series.
type InstallationRecord struct {
	Year  int               `json:"year" yaml:"year"`
	Class int               `json:"ifr_class" yaml:"ifr_class"`
	Count Optional[float64] `json:"installations" yaml:"installations"`
}
