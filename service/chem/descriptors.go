/*
 * @module service/chem/descriptors
 * @description 分子描述符：精确分子量、氢键供体数、氢键受体数
 * @architecture 纯函数集合
 * @documentReference Lipinski 1997; RDKit Lipinski 模块的供体/受体定义
 * @stateFlow 分子图 -> 数值
 * @rules 供体: [N&!H0&v3,N&!H0&+1&v4,O&H1&+0,S&H1&+0,n&H1&+0]
 *        受体: 含一个氢且不与羰基类原子相连的O/S、无氢二价O/S、负电O/S、非酰胺三价N、芳香nH0/o/s、F
 * @dependencies 无
 * @refs crippen.go
 */

package chem

// ExactMolWt 精确分子量（单同位素质量，含隐式氢，按电荷修正电子质量）
func ExactMolWt(m *Molecule) float64 {
	h, _ := LookupElement("H")
	var mass float64
	charge := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		mass += IsotopeMass(a.Element, a.Isotope)
		mass += float64(a.ExplicitH+a.ImplicitH) * h.Mass
		charge += a.Charge
	}
	return mass - float64(charge)*ElectronMass
}

// NumHDonors 氢键供体数
func NumHDonors(m *Molecule) int {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		hs := m.TotalHs(i)
		switch {
		case a.Number() == numN && !a.Aromatic:
			v := m.Valence(i)
			if hs > 0 && (v == 3 || (v == 4 && a.Charge == 1)) {
				n++
			}
		case (a.Number() == numO || a.Number() == numS) && !a.Aromatic:
			if hs == 1 && a.Charge == 0 {
				n++
			}
		case a.Number() == numN && a.Aromatic:
			if hs == 1 && a.Charge == 0 {
				n++
			}
		}
	}
	return n
}

// NumHAcceptors 氢键受体数
func NumHAcceptors(m *Molecule) int {
	n := 0
	for i := range m.Atoms {
		if isAcceptor(m, i) {
			n++
		}
	}
	return n
}

func isAcceptor(m *Molecule, i int) bool {
	a := &m.Atoms[i]
	num := a.Number()

	if num == numF {
		return true
	}

	if a.Aromatic {
		switch num {
		case numN:
			return a.Charge == 0 && m.TotalHs(i) == 0
		case numO, numS:
			return a.Charge == 0
		}
		return false
	}

	switch num {
	case numO, numS:
		if a.Charge == -1 {
			return true
		}
		if m.Valence(i) != 2 {
			return false
		}
		switch m.TotalHs(i) {
		case 0:
			return true
		case 1:
			for _, nb := range m.heavyNeighbors(i) {
				if nb.order == BondSingle && !m.hasDoubleBondTo(nb.atom, numO, numN, numP, numS) {
					return true
				}
			}
		}
		return false
	case numN:
		if m.Valence(i) != 3 {
			return false
		}
		// 排除酰胺类氮：单键连接的原子带有非环双键到 O/N/P/S
		for _, nb := range m.heavyNeighbors(i) {
			if nb.order != BondSingle {
				continue
			}
			if hasAcyclicDoubleBondTo(m, nb.atom, numO, numN, numP, numS) {
				return false
			}
		}
		return true
	}
	return false
}

func hasAcyclicDoubleBondTo(m *Molecule, atom int, numbers ...int) bool {
	for _, bi := range m.adj[atom] {
		b := &m.Bonds[bi]
		if b.Order != BondDouble || b.InRing {
			continue
		}
		other := m.Atoms[b.Other(atom)]
		if other.Aromatic {
			continue
		}
		for _, n := range numbers {
			if other.Number() == n {
				return true
			}
		}
	}
	return false
}
