package chem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// maxAromaticRing 参与芳香性感知的最大环大小
const maxAromaticRing = 6

// smallRings 枚举大小为5~6的简单环（原子序列）
func smallRings(m *Molecule) [][]int {
	var rings [][]int
	seen := make(map[string]bool)

	var walk func(start int, path []int)
	walk = func(start int, path []int) {
		last := path[len(path)-1]
		for _, bi := range m.adj[last] {
			next := m.Bonds[bi].Other(last)
			if m.Atoms[next].Number() == numH {
				continue
			}
			if next == start && len(path) >= 5 {
				key := ringKey(path)
				if !seen[key] {
					seen[key] = true
					rings = append(rings, append([]int(nil), path...))
				}
				continue
			}
			// 只从编号最小的原子出发，避免同一个环被重复展开
			if next <= start || len(path) >= maxAromaticRing || contains(path, next) {
				continue
			}
			walk(start, append(path, next))
		}
	}

	for i := range m.Atoms {
		if m.Atoms[i].Number() == numH {
			continue
		}
		walk(i, []int{i})
	}
	return rings
}

func ringKey(path []int) string {
	ids := append([]int(nil), path...)
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func contains(path []int, v int) bool {
	for _, p := range path {
		if p == v {
			return true
		}
	}
	return false
}

// piElectrons 原子在给定环中贡献的π电子数，-1表示无法参与共轭
func piElectrons(m *Molecule, ring []int, pos int) int {
	atom := ring[pos]
	a := &m.Atoms[atom]
	prev := ring[(pos+len(ring)-1)%len(ring)]
	next := ring[(pos+1)%len(ring)]

	for _, nb := range []int{prev, next} {
		if b, ok := m.BondBetween(atom, nb); ok && (b.Order == BondDouble || b.Order == BondAromatic) {
			return 1
		}
	}
	// 已在其他环中被判定为芳香的稠合原子
	if a.Aromatic && !m.hasDoubleBondTo(atom) {
		return 1
	}
	if m.hasDoubleBondTo(atom) {
		// 环外双键连到电负性原子(C=O、C=N、C=S)时碳不贡献π电子
		if a.Number() == numC && m.hasExocyclicDoubleBondTo(atom, numO, numN, numS) {
			return 0
		}
		return -1
	}

	switch a.Number() {
	case numN, numP:
		if len(m.heavyNeighbors(atom))+m.TotalHs(atom) == 3 && a.Charge == 0 {
			return 2
		}
	case numO, numS, 34:
		if len(m.heavyNeighbors(atom)) == 2 && a.Charge == 0 {
			return 2
		}
	}
	return -1
}

// hasExocyclicDoubleBondTo 原子是否有不在环内的双键连到给定元素
func (m *Molecule) hasExocyclicDoubleBondTo(atom int, numbers ...int) bool {
	for _, bi := range m.adj[atom] {
		b := &m.Bonds[bi]
		if b.Order != BondDouble || b.InRing {
			continue
		}
		other := m.Atoms[b.Other(atom)].Number()
		for _, n := range numbers {
			if other == n {
				return true
			}
		}
	}
	return false
}

// perceiveAromaticity 将凯库勒式表示的芳香环转换为芳香键，依赖 markRingBonds 的结果
func perceiveAromaticity(m *Molecule) {
	rings := smallRings(m)
	done := make([]bool, len(rings))

	for changed := true; changed; {
		changed = false
		for ri, ring := range rings {
			if done[ri] {
				continue
			}
			total := 0
			ok := true
			for pos := range ring {
				e := piElectrons(m, ring, pos)
				if e < 0 {
					ok = false
					break
				}
				total += e
			}
			if !ok || total%4 != 2 {
				continue
			}

			done[ri] = true
			changed = true
			for pos, atom := range ring {
				m.Atoms[atom].Aromatic = true
				if b, found := m.BondBetween(atom, ring[(pos+1)%len(ring)]); found {
					b.Order = BondAromatic
				}
			}
		}
	}
}

// chargedValence 按电荷修正价态：碳族失去或得到电子都减少成键数，硼得电子增加成键数，其余元素随正电荷增加
func chargedValence(number, valence, charge int) int {
	switch number {
	case numC, 14, 32:
		if charge < 0 {
			return valence + charge
		}
		return valence - charge
	case numB:
		return valence - charge
	default:
		return valence + charge
	}
}

// targetValence 芳香原子按电荷修正后的默认价态
func targetValence(a *Atom) int {
	return chargedValence(a.Number(), a.Element.Valences[0], a.Charge)
}

// needsDoubleBond 输入中的芳香原子是否还需要一根环内双键才能满足价态
func (m *Molecule) needsDoubleBond(atom int) bool {
	a := &m.Atoms[atom]
	if len(a.Element.Valences) == 0 {
		return false
	}
	used := m.TotalHs(atom)
	for _, bi := range m.adj[atom] {
		b := &m.Bonds[bi]
		if m.Atoms[b.Other(atom)].Number() == numH {
			continue
		}
		if b.Order == BondAromatic {
			used++
		} else {
			used += int(b.Order)
		}
	}
	return targetValence(a)-used >= 1
}

// checkKekulizable 校验以小写形式输入的芳香原子能否分配出一组凯库勒双键
func checkKekulizable(m *Molecule) error {
	n := len(m.Atoms)
	need := make([]bool, n)
	for i := range m.Atoms {
		if !m.Atoms[i].Aromatic {
			continue
		}
		inRing := false
		for _, bi := range m.adj[i] {
			if m.Bonds[bi].InRing {
				inRing = true
				break
			}
		}
		if !inRing {
			return fmt.Errorf("非环原子 %d 被标记为芳香", i)
		}
		need[i] = m.needsDoubleBond(i)
	}

	match := make([]int, n)
	for i := range match {
		match[i] = -1
	}
	candidates := func(atom int) []int {
		var out []int
		for _, bi := range m.adj[atom] {
			b := &m.Bonds[bi]
			other := b.Other(atom)
			if b.Order == BondAromatic && b.InRing && need[other] && match[other] < 0 {
				out = append(out, other)
			}
		}
		return out
	}

	// 每次展开候选最少的原子，药物分子规模下回溯很快收敛
	var solve func() bool
	solve = func() bool {
		best := -1
		var bestCands []int
		for i := 0; i < n; i++ {
			if !need[i] || match[i] >= 0 {
				continue
			}
			cands := candidates(i)
			if len(cands) == 0 {
				return false
			}
			if best < 0 || len(cands) < len(bestCands) {
				best, bestCands = i, cands
			}
		}
		if best < 0 {
			return true
		}
		for _, j := range bestCands {
			match[best], match[j] = j, best
			if solve() {
				return true
			}
			match[best], match[j] = -1, -1
		}
		return false
	}
	if !solve() {
		return fmt.Errorf("芳香体系无法凯库勒化")
	}
	return nil
}

// markRingBonds 用桥边算法标记环内键
func markRingBonds(m *Molecule) {
	n := len(m.Atoms)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0

	var dfs func(u, parentBond int)
	dfs = func(u, parentBond int) {
		disc[u] = timer
		low[u] = timer
		timer++
		for _, bi := range m.adj[u] {
			if bi == parentBond {
				continue
			}
			v := m.Bonds[bi].Other(u)
			if disc[v] < 0 {
				dfs(v, bi)
				if low[v] < low[u] {
					low[u] = low[v]
				}
			} else if disc[v] < low[u] {
				low[u] = disc[v]
			}
		}
	}
	for i := 0; i < n; i++ {
		if disc[i] < 0 {
			dfs(i, -1)
		}
	}

	for i := range m.Bonds {
		b := &m.Bonds[i]
		u, v := b.Begin, b.End
		// 树边 (u 为父) 是桥当且仅当 low[v] > disc[u]
		if disc[u] > disc[v] {
			u, v = v, u
		}
		b.InRing = !(low[v] > disc[u])
	}
}
