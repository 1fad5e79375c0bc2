/*
 * @module service/chem/smiles
 * @description SMILES 解析器，生成分子图并补全隐式氢
 * @architecture 递归下降(栈式)解析器
 * @documentReference OpenSMILES 规范
 * @stateFlow 字符串 -> 原子/键 -> 隐式氢 -> 芳香性感知 -> 环键标记
 * @rules 支持有机子集、方括号原子(同位素/手性/氢数/电荷/原子类)、分支、环闭合(含%nn)、键符号和'.'分隔
 * @dependencies 无
 * @refs molecule.go, aromaticity.go
 */

package chem

import (
	"fmt"
	"strings"
)

// SmilesError SMILES 语法或价态错误
type SmilesError struct {
	Smiles string
	Pos    int
	Msg    string
}

func (e *SmilesError) Error() string {
	return fmt.Sprintf("SMILES解析失败(位置 %d): %s", e.Pos, e.Msg)
}

type ringOpening struct {
	atom     int
	order    BondOrder
	hasOrder bool
	pos      int
}

type smilesParser struct {
	src      string
	pos      int
	mol      *Molecule
	prev     int
	pending  BondOrder
	branches []int
	rings    map[int]ringOpening
}

// ParseSmiles 解析 SMILES 字符串
func ParseSmiles(smiles string) (*Molecule, error) {
	s := strings.TrimSpace(smiles)
	if s == "" {
		return nil, &SmilesError{Smiles: smiles, Msg: "空字符串"}
	}
	// 只取第一个空白前的部分，其后为名称等附加字段
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		s = s[:i]
	}

	p := &smilesParser{
		src:   s,
		mol:   &Molecule{},
		prev:  -1,
		rings: make(map[int]ringOpening),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	if err := assignImplicitHydrogens(p.mol); err != nil {
		return nil, &SmilesError{Smiles: s, Pos: len(s), Msg: err.Error()}
	}
	markRingBonds(p.mol)
	if err := checkKekulizable(p.mol); err != nil {
		return nil, &SmilesError{Smiles: s, Pos: len(s), Msg: err.Error()}
	}
	perceiveAromaticity(p.mol)
	return p.mol, nil
}

func (p *smilesParser) fail(format string, args ...interface{}) error {
	return &SmilesError{Smiles: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.fail("分支前缺少原子")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.fail("多余的右括号")
			}
			if p.pending != 0 {
				return p.fail("键符号后缺少原子")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case strings.IndexByte("-=#$:/\\", c) >= 0:
			if p.pending != 0 {
				return p.fail("连续的键符号")
			}
			p.pending = bondSymbol(c)
			p.pos++
		case c == '.':
			if p.pending != 0 {
				return p.fail("键符号后缺少原子")
			}
			if len(p.branches) > 0 {
				return p.fail("分支内不允许'.'")
			}
			p.prev = -1
			p.pos++
		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			atom, err := p.bracketAtom()
			if err != nil {
				return err
			}
			if err := p.attach(atom); err != nil {
				return err
			}
		default:
			atom, err := p.organicAtom()
			if err != nil {
				return err
			}
			if err := p.attach(atom); err != nil {
				return err
			}
		}
	}

	if p.pending != 0 {
		return p.fail("末尾存在悬空的键符号")
	}
	if len(p.branches) > 0 {
		return p.fail("分支未闭合")
	}
	for n, r := range p.rings {
		p.pos = r.pos
		return p.fail("环闭合 %d 未配对", n)
	}
	if len(p.mol.Atoms) == 0 {
		return p.fail("未包含任何原子")
	}
	return nil
}

func bondSymbol(c byte) BondOrder {
	switch c {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	default:
		// '-', '/', '\' 均为单键，立体信息不参与描述符计算
		return BondSingle
	}
}

func (p *smilesParser) defaultOrder(a, b int) BondOrder {
	if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		return BondAromatic
	}
	return BondSingle
}

func (p *smilesParser) attach(atom Atom) error {
	idx := p.mol.addAtom(atom)
	if p.prev >= 0 {
		order := p.pending
		if order == 0 {
			order = p.defaultOrder(p.prev, idx)
		}
		p.mol.addBond(p.prev, idx, order)
	} else if p.pending != 0 {
		return p.fail("键符号前缺少原子")
	}
	p.prev = idx
	p.pending = 0
	return nil
}

func (p *smilesParser) ringClosure() error {
	start := p.pos
	if p.prev < 0 {
		return p.fail("环闭合前缺少原子")
	}
	var n int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.fail("'%%' 后需要两位数字")
		}
		n = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		n = int(p.src[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = ringOpening{atom: p.prev, order: p.pending, hasOrder: p.pending != 0, pos: start}
		p.pending = 0
		return nil
	}

	delete(p.rings, n)
	order := p.pending
	if open.hasOrder {
		if order != 0 && order != open.order {
			p.pos = start
			return p.fail("环闭合 %d 两端键级不一致", n)
		}
		order = open.order
	}
	if open.atom == p.prev {
		p.pos = start
		return p.fail("环闭合 %d 连接到自身", n)
	}
	if _, exists := p.mol.BondBetween(open.atom, p.prev); exists {
		p.pos = start
		return p.fail("环闭合 %d 重复连接同一对原子", n)
	}
	if order == 0 {
		order = p.defaultOrder(open.atom, p.prev)
	}
	p.mol.addBond(open.atom, p.prev, order)
	p.pending = 0
	return nil
}

func (p *smilesParser) organicAtom() (Atom, error) {
	rest := p.src[p.pos:]
	if rest[0] == '*' {
		p.pos++
		e, _ := LookupElement("*")
		return Atom{Element: e}, nil
	}
	if len(rest) >= 2 {
		if sym := rest[:2]; sym == "Cl" || sym == "Br" {
			p.pos += 2
			e, _ := LookupElement(sym)
			return Atom{Element: e}, nil
		}
	}
	sym := rest[:1]
	if organicSubset[sym] {
		p.pos++
		e, _ := LookupElement(sym)
		return Atom{Element: e}, nil
	}
	if upper, ok := aromaticSymbols[sym]; ok && len(upper) == 1 {
		p.pos++
		e, _ := LookupElement(upper)
		return Atom{Element: e, Aromatic: true}, nil
	}
	return Atom{}, p.fail("无法识别的字符 %q", rest[0])
}

func (p *smilesParser) bracketAtom() (Atom, error) {
	p.pos++ // '['
	atom := Atom{Bracket: true}

	// 同位素
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		atom.Isotope = atom.Isotope*10 + int(p.src[p.pos]-'0')
		p.pos++
	}

	if err := p.bracketSymbol(&atom); err != nil {
		return Atom{}, err
	}

	// 手性
	if p.peek() == '@' {
		p.pos++
		if p.peek() == '@' {
			p.pos++
		} else if p.pos+1 < len(p.src) {
			switch p.src[p.pos : p.pos+2] {
			case "TH", "AL", "SP", "TB", "OH":
				p.pos += 2
				for isDigit(p.peek()) {
					p.pos++
				}
			}
		}
	}

	// 氢数
	if p.peek() == 'H' {
		p.pos++
		atom.ExplicitH = 1
		if isDigit(p.peek()) {
			atom.ExplicitH = int(p.src[p.pos] - '0')
			p.pos++
		}
	}

	// 电荷
	if c := p.peek(); c == '+' || c == '-' {
		sign := 1
		if c == '-' {
			sign = -1
		}
		p.pos++
		magnitude := 1
		if isDigit(p.peek()) {
			magnitude = 0
			for isDigit(p.peek()) {
				magnitude = magnitude*10 + int(p.src[p.pos]-'0')
				p.pos++
			}
		} else {
			for p.peek() == c {
				magnitude++
				p.pos++
			}
		}
		atom.Charge = sign * magnitude
	}

	// 原子类
	if p.peek() == ':' {
		p.pos++
		if !isDigit(p.peek()) {
			return Atom{}, p.fail("原子类需要数字")
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}

	if p.peek() != ']' {
		return Atom{}, p.fail("方括号原子未闭合")
	}
	p.pos++
	return atom, nil
}

func (p *smilesParser) bracketSymbol(atom *Atom) error {
	rest := p.src[p.pos:]
	if rest == "" {
		return p.fail("方括号内缺少元素符号")
	}
	if rest[0] == '*' {
		p.pos++
		atom.Element, _ = LookupElement("*")
		return nil
	}
	// 小写芳香符号，优先匹配双字母
	if rest[0] >= 'a' && rest[0] <= 'z' {
		for _, n := range []int{2, 1} {
			if len(rest) < n {
				continue
			}
			if upper, ok := aromaticSymbols[rest[:n]]; ok {
				atom.Element, _ = LookupElement(upper)
				atom.Aromatic = true
				p.pos += n
				return nil
			}
		}
		return p.fail("未知的芳香原子符号")
	}
	if rest[0] < 'A' || rest[0] > 'Z' {
		return p.fail("方括号内缺少元素符号")
	}
	if len(rest) >= 2 && rest[1] >= 'a' && rest[1] <= 'z' {
		if e, ok := LookupElement(rest[:2]); ok {
			atom.Element = e
			p.pos += 2
			return nil
		}
	}
	if e, ok := LookupElement(rest[:1]); ok {
		atom.Element = e
		p.pos++
		return nil
	}
	return p.fail("未知元素 %q", rest[:1])
}

func (p *smilesParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// checkedBracketElements 方括号原子需要校验价态上限的元素
var checkedBracketElements = map[int]bool{
	numB: true, numC: true, numN: true, numO: true, numF: true,
	numP: true, numS: true, numCl: true, numBr: true, numI: true,
}

// bondSum 键级之和，芳香键按1计
func (m *Molecule) bondSum(atom int) int {
	sum := 0
	for _, bi := range m.adj[atom] {
		o := m.Bonds[bi].Order
		if o == BondAromatic {
			sum++
		} else {
			sum += int(o)
		}
	}
	return sum
}

// assignImplicitHydrogens 按默认价态为有机子集原子补氢，并校验非芳香方括号原子的价态上限
func assignImplicitHydrogens(m *Molecule) error {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Number() == numWildcard || len(a.Element.Valences) == 0 {
			continue
		}
		sum := m.bondSum(i)

		if a.Bracket {
			if a.Aromatic || !checkedBracketElements[a.Number()] {
				continue
			}
			limit := chargedValence(a.Number(), a.Element.Valences[len(a.Element.Valences)-1], a.Charge)
			if total := sum + a.ExplicitH; total > limit {
				return fmt.Errorf("原子 %d([%s]) 价态 %d 超出允许范围", i, a.Element.Symbol, total)
			}
			continue
		}

		if a.Aromatic {
			// 芳香 O/S/Se 以孤对电子参与共轭，不额外占用价态
			switch a.Number() {
			case numC, numN, numP, numB:
				sum++
			}
			if def := a.Element.Valences[0]; sum < def {
				a.ImplicitH = def - sum
			}
			continue
		}

		target := -1
		for _, v := range a.Element.Valences {
			if v >= sum {
				target = v
				break
			}
		}
		if target < 0 {
			return fmt.Errorf("原子 %d(%s) 价态 %d 超出允许范围", i, a.Element.Symbol, sum)
		}
		a.ImplicitH = target - sum
	}
	return nil
}
