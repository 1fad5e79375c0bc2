/*
 * @module service/descriptor/calculator
 * @description 分子描述符计算器接口，将结构编码(SMILES)映射为四个描述符
 * @architecture 接口隔离 - 核心流程只依赖 Calculator 接口，具体实现可替换
 * @documentReference dev_docs/screening.md
 * @stateFlow SMILES -> 解析 -> 分子量/logP/供体数/受体数
 * @rules 解析失败统一返回 *ParseError；空编码同样视为解析失败
 * @dependencies ro5-service/service/chem
 * @refs service/screening
 */

package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"ro5-service/service/chem"
	"ro5-service/service/models"
)

// Calculator 描述符计算器，每个方法独立解析编码
type Calculator interface {
	// ComputeMass 精确分子量
	ComputeMass(encoding string) (float64, error)
	// ComputePartitionCoefficient 辛醇/水分配系数(logP)
	ComputePartitionCoefficient(encoding string) (float64, error)
	// ComputeDonorCount 氢键供体数
	ComputeDonorCount(encoding string) (int, error)
	// ComputeAcceptorCount 氢键受体数
	ComputeAcceptorCount(encoding string) (int, error)
}

// SetCalculator 一次解析即可计算全部描述符的计算器
type SetCalculator interface {
	Describe(encoding string) (models.DescriptorSet, error)
}

// ParseError 结构编码无法解析
type ParseError struct {
	Encoding string
	Pos      int
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("结构编码 %q 解析失败(位置 %d): %s", e.Encoding, e.Pos, e.Reason)
	}
	return fmt.Sprintf("结构编码 %q 解析失败: %s", e.Encoding, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError 判断错误链中是否包含 ParseError
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Compute 计算完整描述符集合，优先使用 SetCalculator
func Compute(calc Calculator, encoding string) (models.DescriptorSet, error) {
	if sc, ok := calc.(SetCalculator); ok {
		return sc.Describe(encoding)
	}

	var (
		set models.DescriptorSet
		err error
	)
	if set.MW, err = calc.ComputeMass(encoding); err != nil {
		return models.DescriptorSet{}, err
	}
	if set.LogP, err = calc.ComputePartitionCoefficient(encoding); err != nil {
		return models.DescriptorSet{}, err
	}
	if set.HDonors, err = calc.ComputeDonorCount(encoding); err != nil {
		return models.DescriptorSet{}, err
	}
	if set.HAcceptors, err = calc.ComputeAcceptorCount(encoding); err != nil {
		return models.DescriptorSet{}, err
	}
	return set, nil
}

// ToolkitCalculator 基于内置化学工具包的计算器
type ToolkitCalculator struct{}

// NewToolkitCalculator 创建工具包计算器
func NewToolkitCalculator() *ToolkitCalculator {
	return &ToolkitCalculator{}
}

// Version 计算口径版本，参与缓存键
func (c *ToolkitCalculator) Version() string {
	return "toolkit-v1"
}

func (c *ToolkitCalculator) parse(encoding string) (*chem.Molecule, error) {
	if strings.TrimSpace(encoding) == "" {
		return nil, &ParseError{Encoding: encoding, Reason: "结构编码为空"}
	}
	mol, err := chem.ParseSmiles(encoding)
	if err != nil {
		pe := &ParseError{Encoding: encoding, Reason: err.Error(), Err: err}
		var se *chem.SmilesError
		if errors.As(err, &se) {
			pe.Pos = se.Pos
			pe.Reason = se.Msg
		}
		return nil, pe
	}
	return mol, nil
}

// ComputeMass 精确分子量
func (c *ToolkitCalculator) ComputeMass(encoding string) (float64, error) {
	mol, err := c.parse(encoding)
	if err != nil {
		return 0, err
	}
	return chem.ExactMolWt(mol), nil
}

// ComputePartitionCoefficient Crippen logP
func (c *ToolkitCalculator) ComputePartitionCoefficient(encoding string) (float64, error) {
	mol, err := c.parse(encoding)
	if err != nil {
		return 0, err
	}
	return chem.MolLogP(mol), nil
}

// ComputeDonorCount 氢键供体数
func (c *ToolkitCalculator) ComputeDonorCount(encoding string) (int, error) {
	mol, err := c.parse(encoding)
	if err != nil {
		return 0, err
	}
	return chem.NumHDonors(mol), nil
}

// ComputeAcceptorCount 氢键受体数
func (c *ToolkitCalculator) ComputeAcceptorCount(encoding string) (int, error) {
	mol, err := c.parse(encoding)
	if err != nil {
		return 0, err
	}
	return chem.NumHAcceptors(mol), nil
}

// Describe 解析一次，计算全部描述符
func (c *ToolkitCalculator) Describe(encoding string) (models.DescriptorSet, error) {
	mol, err := c.parse(encoding)
	if err != nil {
		return models.DescriptorSet{}, err
	}
	return models.DescriptorSet{
		MW:         chem.ExactMolWt(mol),
		LogP:       chem.MolLogP(mol),
		HDonors:    chem.NumHDonors(mol),
		HAcceptors: chem.NumHAcceptors(mol),
	}, nil
}

// FuncCalculator 以函数字段组装的计算器，便于注入确定性的替身实现
type FuncCalculator struct {
	MassFunc      func(string) (float64, error)
	LogPFunc      func(string) (float64, error)
	DonorsFunc    func(string) (int, error)
	AcceptorsFunc func(string) (int, error)
}

func (f FuncCalculator) ComputeMass(encoding string) (float64, error) {
	return f.MassFunc(encoding)
}

func (f FuncCalculator) ComputePartitionCoefficient(encoding string) (float64, error) {
	return f.LogPFunc(encoding)
}

func (f FuncCalculator) ComputeDonorCount(encoding string) (int, error) {
	return f.DonorsFunc(encoding)
}

func (f FuncCalculator) ComputeAcceptorCount(encoding string) (int, error) {
	return f.AcceptorsFunc(encoding)
}

// TableCalculator 查表计算器，未收录的编码按解析失败处理
type TableCalculator map[string]models.DescriptorSet

func (t TableCalculator) Describe(encoding string) (models.DescriptorSet, error) {
	set, ok := t[encoding]
	if !ok {
		return models.DescriptorSet{}, &ParseError{Encoding: encoding, Reason: "未收录的结构编码"}
	}
	return set, nil
}

func (t TableCalculator) ComputeMass(encoding string) (float64, error) {
	set, err := t.Describe(encoding)
	return set.MW, err
}

func (t TableCalculator) ComputePartitionCoefficient(encoding string) (float64, error) {
	set, err := t.Describe(encoding)
	return set.LogP, err
}

func (t TableCalculator) ComputeDonorCount(encoding string) (int, error) {
	set, err := t.Describe(encoding)
	return set.HDonors, err
}

func (t TableCalculator) ComputeAcceptorCount(encoding string) (int, error) {
	set, err := t.Describe(encoding)
	return set.HAcceptors, err
}
