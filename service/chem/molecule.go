/*
 * @module service/chem/molecule
 * @description 分子图结构：原子、化学键及常用邻接查询
 * @architecture 数据结构层
 * @documentReference dev_docs/screening.md
 * @stateFlow 解析生成 -> 芳香性感知 -> 只读查询
 * @rules 隐式氢在解析阶段确定，之后不再修改
 * @dependencies 无
 * @refs smiles.go, aromaticity.go
 */

package chem

// BondOrder 键级
type BondOrder int

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

// valence 键级对价态的贡献（芳香键按1.5计）
func (o BondOrder) valence() float64 {
	switch o {
	case BondAromatic:
		return 1.5
	default:
		return float64(o)
	}
}

// Atom 原子
type Atom struct {
	Element   *Element
	Isotope   int
	Charge    int
	Aromatic  bool
	Bracket   bool
	ExplicitH int
	ImplicitH int
}

// Number 原子序数
func (a *Atom) Number() int {
	return a.Element.Number
}

// Bond 化学键
type Bond struct {
	Begin  int
	End    int
	Order  BondOrder
	InRing bool
}

// Other 返回键另一端的原子
func (b *Bond) Other(atom int) int {
	if b.Begin == atom {
		return b.End
	}
	return b.Begin
}

// Molecule 分子图
type Molecule struct {
	Atoms []Atom
	Bonds []Bond
	adj   [][]int
}

func (m *Molecule) addAtom(a Atom) int {
	m.Atoms = append(m.Atoms, a)
	m.adj = append(m.adj, nil)
	return len(m.Atoms) - 1
}

func (m *Molecule) addBond(begin, end int, order BondOrder) {
	m.Bonds = append(m.Bonds, Bond{Begin: begin, End: end, Order: order})
	idx := len(m.Bonds) - 1
	m.adj[begin] = append(m.adj[begin], idx)
	m.adj[end] = append(m.adj[end], idx)
}

// BondBetween 返回两个原子之间的键
func (m *Molecule) BondBetween(a, b int) (*Bond, bool) {
	for _, bi := range m.adj[a] {
		if m.Bonds[bi].Other(a) == b {
			return &m.Bonds[bi], true
		}
	}
	return nil, false
}

// BondsOf 原子的全部键索引
func (m *Molecule) BondsOf(atom int) []int {
	return m.adj[atom]
}

// TotalHs 原子携带的氢数（隐式、方括号内声明以及显式氢原子邻居）
func (m *Molecule) TotalHs(atom int) int {
	a := &m.Atoms[atom]
	n := a.ExplicitH + a.ImplicitH
	for _, bi := range m.adj[atom] {
		if m.Atoms[m.Bonds[bi].Other(atom)].Number() == numH {
			n++
		}
	}
	return n
}

// Valence 总价态（键级之和加氢数，芳香键按1.5计后向下取整）
func (m *Molecule) Valence(atom int) int {
	var sum float64
	for _, bi := range m.adj[atom] {
		sum += m.Bonds[bi].Order.valence()
	}
	a := &m.Atoms[atom]
	return int(sum) + a.ExplicitH + a.ImplicitH
}

// neighbor 重原子邻居及连接键
type neighbor struct {
	atom  int
	order BondOrder
}

// heavyNeighbors 非氢邻居
func (m *Molecule) heavyNeighbors(atom int) []neighbor {
	out := make([]neighbor, 0, len(m.adj[atom]))
	for _, bi := range m.adj[atom] {
		b := &m.Bonds[bi]
		other := b.Other(atom)
		if m.Atoms[other].Number() == numH {
			continue
		}
		out = append(out, neighbor{atom: other, order: b.Order})
	}
	return out
}

// hasDoubleBondTo 原子是否通过双键连接到给定元素之一
func (m *Molecule) hasDoubleBondTo(atom int, numbers ...int) bool {
	for _, nb := range m.heavyNeighbors(atom) {
		if nb.order != BondDouble {
			continue
		}
		if len(numbers) == 0 {
			return true
		}
		for _, n := range numbers {
			if m.Atoms[nb.atom].Number() == n {
				return true
			}
		}
	}
	return false
}

// HeavyAtomCount 重原子数
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for i := range m.Atoms {
		if m.Atoms[i].Number() != numH {
			n++
		}
	}
	return n
}
