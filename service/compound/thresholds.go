package compound

import "ro5-service/service/models"

// DefaultThresholds Lipinski 五规则默认阈值
var DefaultThresholds = models.Thresholds{
	MolWeight:  500,
	LogP:       5,
	HDonors:    5,
	HAcceptors: 10,
}

// ThresholdRange 阈值输入的建议范围，仅供界面参考，筛选本身接受任意取值
type ThresholdRange struct {
	Key     string  `json:"key" example:"mol_weight"`
	Label   string  `json:"label" example:"Molecular Weight"`
	Min     float64 `json:"min" example:"0"`
	Max     float64 `json:"max" example:"1000"`
	Default float64 `json:"default" example:"500"`
	Step    float64 `json:"step" example:"1"`
}

// ThresholdRanges 各阈值的建议范围
var ThresholdRanges = []ThresholdRange{
	{Key: "mol_weight", Label: "Molecular Weight", Min: 0, Max: 1000, Default: DefaultThresholds.MolWeight, Step: 1},
	{Key: "logp", Label: "LogP", Min: -10, Max: 10, Default: DefaultThresholds.LogP, Step: 0.01},
	{Key: "hdonors", Label: "HDonors", Min: 0, Max: 10, Default: float64(DefaultThresholds.HDonors), Step: 1},
	{Key: "hacceptors", Label: "HAcceptors", Min: 0, Max: 20, Default: float64(DefaultThresholds.HAcceptors), Step: 1},
}

// Rule 五规则条目说明
type Rule struct {
	Title     string `json:"title" example:"Molecular weight < 500 daltons"`
	Rationale string `json:"rationale"`
}

// RuleSet 五规则说明
type RuleSet struct {
	Definition string   `json:"definition"`
	Rules      []Rule   `json:"rules"`
	Exceptions []string `json:"exceptions"`
}

// Ro5Rules Lipinski 五规则及其例外
var Ro5Rules = RuleSet{
	Definition: "Lipinski's Rule of Five is a set of guidelines used in drug discovery to predict whether a chemical compound is likely to be an orally active drug in humans. The rules were formulated by Christopher A. Lipinski and his colleagues in 1997.",
	Rules: []Rule{
		{
			Title:     "Molecular weight < 500 daltons",
			Rationale: "Small enough to be absorbed by the digestive system.",
		},
		{
			Title:     "LogP (partition coefficient) < 5",
			Rationale: "Balances hydrophilic and lipophilic character so the body can absorb the compound.",
		},
		{
			Title:     "Hydrogen bond donors < 5",
			Rationale: "Too many donors make the compound too polar to pass through cell membranes.",
		},
		{
			Title:     "Hydrogen bond acceptors < 10",
			Rationale: "Too many acceptors make the compound too polar.",
		},
		{
			Title:     "Polar surface area < 140 Å²",
			Rationale: "A smaller polar region makes the compound less likely to be too polar. Not applied by the screening filter.",
		},
	},
	Exceptions: []string{
		"Certain antibiotics, antifungals, vitamins and cardiac glycosides do not follow the rules but are still effective oral drugs.",
		"The rules are not absolute predictors of oral bioavailability; they are a starting point for further investigation.",
		"Solubility, permeability and metabolic stability also influence oral bioavailability and are not covered by the rules.",
	},
}
