/*
 * @module service/chem/crippen
 * @description Wildman-Crippen 原子贡献法估算辛醇/水分配系数(logP)
 * @architecture 原子类型判定 + 贡献值查表
 * @documentReference Wildman & Crippen, J. Chem. Inf. Comput. Sci. 1999, 39, 868-873
 * @stateFlow 分子图 -> 每个原子(含隐式氢)的类型 -> 贡献值求和
 * @rules 类型判定按原文优先级的精简版本，金属与稀有元素归入通用类型
 * @dependencies 无
 * @refs descriptors.go
 */

package chem

// crippenType 原子类型编号沿用原文命名
type crippenType string

var crippenContrib = map[crippenType]float64{
	"C1": 0.1441, "C2": 0.0, "C3": -0.2035, "C4": -0.2051, "C5": -0.2783,
	"C6": 0.1551, "C7": 0.0017, "C8": 0.08452, "C9": -0.1444, "C10": -0.0516,
	"C11": 0.1193, "C12": -0.0967, "C13": -0.5443, "C14": 0.0, "C15": 0.2450,
	"C16": 0.1980, "C17": 0.0, "C18": 0.1581, "C19": 0.2955, "C20": 0.2713,
	"C21": 0.1360, "C22": 0.4619, "C23": 0.5437, "C24": 0.1893, "C25": -0.8186,
	"C26": 0.2640, "C27": 0.2148, "CS": 0.08129,
	"H1": 0.1230, "H2": -0.2677, "H3": 0.2142, "H4": 0.2980,
	"N1": -1.0190, "N2": -0.7096, "N3": -1.0270, "N4": -0.5188, "N5": 0.08387,
	"N6": 0.1836, "N7": -0.3187, "N8": -0.4458, "N9": 0.01508, "N10": -1.950,
	"N11": -0.3239, "N12": -1.119, "N13": -0.3396, "N14": 0.2887,
	"O1": 0.1552, "O2": -0.2893, "O3": -0.0684, "O4": -0.4195, "O5": 0.0335,
	"O6": -0.3339, "O7": -1.189, "O8": 0.1788, "O9": -0.1526, "O10": 0.1129,
	"O11": 0.4833, "O12": -1.326,
	"F": 0.4202, "Cl": 0.6895, "Br": 0.8456, "I": 0.8857, "Hal": -2.996,
	"P": 0.8612, "S1": 0.6482, "S2": -0.0024, "S3": 0.6237,
	"Me1": -0.3808, "Me2": -0.0025,
}

// MolLogP 计算 Crippen logP
func MolLogP(m *Molecule) float64 {
	var logp float64
	for i := range m.Atoms {
		a := &m.Atoms[i]
		switch a.Number() {
		case numWildcard:
			continue
		case numH:
			// 显式氢原子按其所连重原子归类
			if nbs := m.heavyNeighbors(i); len(nbs) == 1 {
				logp += crippenContrib[hydrogenType(m, nbs[0].atom)]
			}
			continue
		}
		logp += crippenContrib[atomType(m, i)]
		if hs := a.ExplicitH + a.ImplicitH; hs > 0 {
			logp += float64(hs) * crippenContrib[hydrogenType(m, i)]
		}
	}
	return logp
}

func atomType(m *Molecule, i int) crippenType {
	a := &m.Atoms[i]
	switch a.Number() {
	case numC:
		if a.Aromatic {
			return aromaticCarbonType(m, i)
		}
		return aliphaticCarbonType(m, i)
	case numN:
		return nitrogenType(m, i)
	case numO:
		return oxygenType(m, i)
	case numF, numCl, numBr, numI:
		if a.Charge != 0 {
			return "Hal"
		}
		return crippenType(a.Element.Symbol)
	case numP:
		return "P"
	case numS:
		switch {
		case a.Aromatic:
			return "S3"
		case a.Charge != 0:
			return "S2"
		default:
			return "S1"
		}
	case 3, 11, 19, 37, 55:
		return "Me1"
	default:
		return "Me2"
	}
}

func isHetero(n int) bool {
	switch n {
	case numN, numO, numP, numS, numF, numCl, numBr, numI:
		return true
	}
	return false
}

func aliphaticCarbonType(m *Molecule, i int) crippenType {
	nbs := m.heavyNeighbors(i)
	doubles, triples := 0, 0
	for _, nb := range nbs {
		switch nb.order {
		case BondDouble:
			doubles++
			if m.Atoms[nb.atom].Number() != numC {
				return "C5"
			}
		case BondTriple:
			triples++
		}
	}
	if triples > 0 {
		return "C7"
	}
	if doubles > 0 {
		for _, nb := range nbs {
			if m.Atoms[nb.atom].Aromatic {
				return "C26"
			}
		}
		return "C6"
	}

	hetero, aromatic, other := false, false, false
	var aromaticCarbon bool
	for _, nb := range nbs {
		na := &m.Atoms[nb.atom]
		switch {
		case na.Aromatic:
			aromatic = true
			if na.Number() == numC {
				aromaticCarbon = true
			}
		case isHetero(na.Number()):
			hetero = true
		case na.Number() != numC:
			other = true
		}
	}

	hs := m.TotalHs(i)
	switch {
	case aromatic:
		switch hs {
		case 3:
			if aromaticCarbon {
				return "C8"
			}
			return "C9"
		case 2:
			return "C10"
		case 1:
			return "C11"
		default:
			return "C12"
		}
	case hetero:
		if hs >= 2 {
			return "C3"
		}
		return "C4"
	case other:
		return "C27"
	case hs >= 2:
		return "C1"
	default:
		return "C2"
	}
}

func aromaticCarbonType(m *Molecule, i int) crippenType {
	if m.TotalHs(i) > 0 {
		return "C18"
	}
	aromaticBonds := 0
	var exo *neighbor
	for _, nb := range m.heavyNeighbors(i) {
		if nb.order == BondAromatic {
			aromaticBonds++
			continue
		}
		nb := nb
		exo = &nb
	}
	if exo == nil {
		if aromaticBonds >= 3 {
			return "C19"
		}
		return "CS"
	}

	x := &m.Atoms[exo.atom]
	if exo.order == BondDouble {
		switch x.Number() {
		case numC, numN, numO:
			return "C25"
		}
		return "C13"
	}
	if x.Aromatic {
		return "C20"
	}
	switch x.Number() {
	case numC:
		return "C21"
	case numN:
		return "C22"
	case numO:
		return "C23"
	case numS:
		return "C24"
	case numF:
		return "C14"
	case numCl:
		return "C15"
	case numBr:
		return "C16"
	case numI:
		return "C17"
	}
	return "C13"
}

func nitrogenType(m *Molecule, i int) crippenType {
	a := &m.Atoms[i]
	hs := m.TotalHs(i)
	if a.Aromatic {
		if a.Charge > 0 {
			return "N12"
		}
		return "N11"
	}
	switch {
	case a.Charge > 0 && hs > 0:
		return "N10"
	case a.Charge != 0:
		return "N13"
	}

	nbs := m.heavyNeighbors(i)
	aromatic := false
	for _, nb := range nbs {
		switch nb.order {
		case BondTriple:
			return "N9"
		case BondDouble:
			if hs > 0 {
				return "N5"
			}
			return "N6"
		}
		if m.Atoms[nb.atom].Aromatic {
			aromatic = true
		}
	}
	switch {
	case hs >= 2 && aromatic:
		return "N3"
	case hs >= 2:
		return "N1"
	case hs == 1 && aromatic:
		return "N4"
	case hs == 1:
		return "N2"
	case aromatic:
		return "N8"
	case len(nbs) > 0:
		return "N7"
	}
	return "N14"
}

func oxygenType(m *Molecule, i int) crippenType {
	a := &m.Atoms[i]
	if a.Aromatic {
		return "O1"
	}
	nbs := m.heavyNeighbors(i)

	if a.Charge < 0 {
		for _, nb := range nbs {
			switch m.Atoms[nb.atom].Number() {
			case numN:
				return "O5"
			case numS:
				return "O6"
			case numC:
				if m.hasDoubleBondTo(nb.atom, numO) {
					return "O12"
				}
			}
		}
		return "O7"
	}

	for _, nb := range nbs {
		if nb.order != BondDouble {
			continue
		}
		x := &m.Atoms[nb.atom]
		switch x.Number() {
		case numN, numO:
			return "O5"
		case numC:
			if x.Aromatic {
				return "O8"
			}
			return carbonylOxygenType(m, nb.atom, i)
		}
		return "O6"
	}

	if m.TotalHs(i) > 0 {
		return "O2"
	}
	for _, nb := range nbs {
		if m.Atoms[nb.atom].Aromatic {
			return "O4"
		}
	}
	return "O3"
}

// carbonylOxygenType 羰基氧按羰基碳的取代情况区分
func carbonylOxygenType(m *Molecule, carbon, oxygen int) crippenType {
	aromatic, aliphaticCarbon := false, false
	for _, nb := range m.heavyNeighbors(carbon) {
		if nb.atom == oxygen {
			continue
		}
		na := &m.Atoms[nb.atom]
		if na.Aromatic {
			aromatic = true
		} else if na.Number() == numC {
			aliphaticCarbon = true
		}
	}
	switch {
	case aromatic:
		return "O10"
	case aliphaticCarbon || m.TotalHs(carbon) > 0:
		return "O9"
	default:
		return "O11"
	}
}

func hydrogenType(m *Molecule, parent int) crippenType {
	switch m.Atoms[parent].Number() {
	case numC:
		return "H1"
	case numN:
		return "H3"
	case numO:
		for _, nb := range m.heavyNeighbors(parent) {
			na := &m.Atoms[nb.atom]
			switch na.Number() {
			case numN:
				return "H3"
			case numO, numS:
				return "H4"
			case numC:
				if !na.Aromatic && m.hasDoubleBondTo(nb.atom, numC, numN, numO, numS) {
					return "H4"
				}
			}
		}
		return "H2"
	}
	return "H2"
}
