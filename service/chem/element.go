/*
 * @module service/chem/element
 * @description 元素周期表数据：原子序数、单同位素质量、默认价态
 * @architecture 静态数据表
 * @documentReference dev_docs/screening.md
 * @stateFlow 只读
 * @rules 质量使用最丰同位素的精确质量，与ExactMolWt口径一致
 * @dependencies 无
 * @refs smiles.go, descriptors.go
 */

package chem

// Element 元素定义
type Element struct {
	Symbol   string
	Number   int
	Mass     float64
	Valences []int
}

// 常用原子序数
const (
	numWildcard = 0
	numH        = 1
	numB        = 5
	numC        = 6
	numN        = 7
	numO        = 8
	numF        = 9
	numP        = 15
	numS        = 16
	numCl       = 17
	numBr       = 35
	numI        = 53
)

// ElectronMass 电子质量，用于带电分子的精确质量修正
const ElectronMass = 0.00054857990946

var elements = []Element{
	{"*", 0, 0, nil},
	{"H", 1, 1.00782503207, []int{1}},
	{"He", 2, 4.00260325415, []int{0}},
	{"Li", 3, 7.01600455, []int{1}},
	{"Be", 4, 9.0121822, []int{2}},
	{"B", 5, 11.0093054, []int{3}},
	{"C", 6, 12.0, []int{4}},
	{"N", 7, 14.0030740048, []int{3}},
	{"O", 8, 15.99491461956, []int{2}},
	{"F", 9, 18.99840322, []int{1}},
	{"Ne", 10, 19.9924401754, []int{0}},
	{"Na", 11, 22.9897692809, []int{1}},
	{"Mg", 12, 23.985041700, []int{2}},
	{"Al", 13, 26.98153863, []int{3}},
	{"Si", 14, 27.9769265325, []int{4}},
	{"P", 15, 30.97376163, []int{3, 5}},
	{"S", 16, 31.97207100, []int{2, 4, 6}},
	{"Cl", 17, 34.96885268, []int{1}},
	{"Ar", 18, 39.9623831225, []int{0}},
	{"K", 19, 38.96370668, []int{1}},
	{"Ca", 20, 39.96259098, []int{2}},
	{"Sc", 21, 44.9559119, nil},
	{"Ti", 22, 47.9479463, nil},
	{"V", 23, 50.9439595, nil},
	{"Cr", 24, 51.9405075, nil},
	{"Mn", 25, 54.9380451, nil},
	{"Fe", 26, 55.9349375, nil},
	{"Co", 27, 58.9331950, nil},
	{"Ni", 28, 57.9353429, nil},
	{"Cu", 29, 62.9295975, nil},
	{"Zn", 30, 63.9291422, nil},
	{"Ga", 31, 68.9255736, nil},
	{"Ge", 32, 73.9211778, []int{4}},
	{"As", 33, 74.9215965, []int{3, 5}},
	{"Se", 34, 79.9165213, []int{2, 4, 6}},
	{"Br", 35, 78.9183371, []int{1}},
	{"Kr", 36, 83.911507, []int{0}},
	{"Rb", 37, 84.911789738, []int{1}},
	{"Sr", 38, 87.9056121, []int{2}},
	{"Y", 39, 88.9058483, nil},
	{"Zr", 40, 89.9047044, nil},
	{"Nb", 41, 92.9063781, nil},
	{"Mo", 42, 97.9054082, nil},
	{"Tc", 43, 97.907216, nil},
	{"Ru", 44, 101.9043493, nil},
	{"Rh", 45, 102.905504, nil},
	{"Pd", 46, 105.903486, nil},
	{"Ag", 47, 106.905097, nil},
	{"Cd", 48, 113.9033585, nil},
	{"In", 49, 114.903878, nil},
	{"Sn", 50, 119.9021947, nil},
	{"Sb", 51, 120.9038157, nil},
	{"Te", 52, 129.9062244, []int{2, 4, 6}},
	{"I", 53, 126.904473, []int{1}},
	{"Xe", 54, 131.9041535, []int{0}},
	{"Cs", 55, 132.905451933, []int{1}},
	{"Ba", 56, 137.9052472, []int{2}},
	{"La", 57, 138.9063533, nil},
	{"Ce", 58, 139.9054387, nil},
	{"Sm", 62, 151.9197324, nil},
	{"Eu", 63, 152.9212303, nil},
	{"Gd", 64, 157.9241039, nil},
	{"Lu", 71, 174.9407718, nil},
	{"Hf", 72, 179.9465500, nil},
	{"Ta", 73, 180.9479958, nil},
	{"W", 74, 183.9509312, nil},
	{"Re", 75, 186.9557531, nil},
	{"Os", 76, 191.9614807, nil},
	{"Ir", 77, 192.9629264, nil},
	{"Pt", 78, 194.9647911, nil},
	{"Au", 79, 196.9665687, nil},
	{"Hg", 80, 201.9706430, nil},
	{"Tl", 81, 204.9744275, nil},
	{"Pb", 82, 207.9766521, nil},
	{"Bi", 83, 208.9803987, nil},
	{"Ra", 88, 226.0254098, nil},
	{"U", 92, 238.0507882, nil},
}

// isotopeMasses 常见标记同位素的精确质量，键为 原子序数*1000+质量数
var isotopeMasses = map[int]float64{
	1*1000 + 2:   2.0141017778,
	1*1000 + 3:   3.0160492777,
	6*1000 + 11:  11.0114336,
	6*1000 + 13:  13.0033548378,
	6*1000 + 14:  14.003241989,
	7*1000 + 15:  15.0001088982,
	8*1000 + 17:  16.99913170,
	8*1000 + 18:  17.9991610,
	9*1000 + 18:  18.0009380,
	15*1000 + 32: 31.97390727,
	16*1000 + 34: 33.96786690,
	16*1000 + 35: 34.96903216,
	17*1000 + 37: 36.96590259,
	35*1000 + 81: 80.9162906,
	43*1000 + 99: 98.9062547,
	53*1000 + 123: 122.905589,
	53*1000 + 125: 124.9046302,
	53*1000 + 131: 130.9061246,
}

var elementBySymbol = func() map[string]*Element {
	m := make(map[string]*Element, len(elements))
	for i := range elements {
		m[elements[i].Symbol] = &elements[i]
	}
	return m
}()

// LookupElement 按元素符号查找
func LookupElement(symbol string) (*Element, bool) {
	e, ok := elementBySymbol[symbol]
	return e, ok
}

// IsotopeMass 返回指定同位素的精确质量，未收录的同位素以质量数近似
func IsotopeMass(e *Element, massNumber int) float64 {
	if massNumber <= 0 {
		return e.Mass
	}
	if m, ok := isotopeMasses[e.Number*1000+massNumber]; ok {
		return m
	}
	return float64(massNumber)
}

// organicSubset SMILES 中可省略方括号的元素
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSymbols 小写芳香原子符号到元素符号
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te",
}
