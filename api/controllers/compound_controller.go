/*
 * @module api/controllers/compound_controller
 * @description 化合物筛选控制器，提供数据集筛选、提交表筛选、单个结构描述符计算与五规则元数据接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/screening.md
 * @stateFlow 解析请求 -> 调用筛选服务 -> 错误映射 -> 统一响应
 * @rules
 *   - 阈值参数缺省时使用五规则默认值，任意数值均可接受
 *   - 结构编码无法解析返回 422，数据来源不可用返回 502
 * @dependencies github.com/go-chi/render, github.com/spf13/cast
 * @refs service/compound
 */

package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"ro5-service/service/compound"
	"ro5-service/service/dataset"
	"ro5-service/service/descriptor"
	"ro5-service/service/models"

	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// MaxSubmittedCompounds 单次提交的化合物数量上限
const MaxSubmittedCompounds = 10000

// CompoundScreener 筛选服务
type CompoundScreener interface {
	Screen(ctx context.Context, thresholds models.Thresholds) (*models.ScreeningResult, error)
	ScreenTable(ctx context.Context, table *models.CompoundTable, thresholds models.Thresholds) (*models.ScreeningResult, error)
	Describe(encoding string) (models.DescriptorSet, error)
}

// CompoundController 化合物筛选控制器
type CompoundController struct {
	service CompoundScreener
}

// NewCompoundController 创建化合物筛选控制器
func NewCompoundController(service CompoundScreener) *CompoundController {
	return &CompoundController{service: service}
}

// ScreenRequest 提交化合物表筛选请求
type ScreenRequest struct {
	Thresholds *models.Thresholds      `json:"thresholds,omitempty"`
	Compounds  []models.CompoundRecord `json:"compounds"`
}

// DescriptorResponse 单个结构编码的描述符
type DescriptorResponse struct {
	Smiles      string               `json:"smiles" example:"CCO"`
	Descriptors models.DescriptorSet `json:"descriptors"`
	Admitted    bool                 `json:"admitted" example:"true"`
}

// ThresholdsResponse 默认阈值与建议范围
type ThresholdsResponse struct {
	Defaults models.Thresholds         `json:"defaults"`
	Ranges   []compound.ThresholdRange `json:"ranges"`
}

// ScreenDataset 筛选配置的数据集
// @Summary 筛选数据集
// @Description 读取配置的数据集，计算描述符并返回满足全部阈值的化合物（按分子量降序）
// @Tags 化合物筛选
// @Produce json
// @Produce text/tab-separated-values
// @Param mol_weight query number false "分子量上限" default(500)
// @Param logp query number false "LogP上限" default(5)
// @Param hdonors query integer false "氢键供体数上限" default(5)
// @Param hacceptors query integer false "氢键受体数上限" default(10)
// @Param format query string false "输出格式 json|tsv" default(json)
// @Success 200 {object} APIResponse{data=models.ScreeningResult}
// @Failure 400 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /compounds/screen [get]
func (c *CompoundController) ScreenDataset(w http.ResponseWriter, r *http.Request) {
	thresholds, err := ParseThresholds(r)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("阈值参数格式错误", err))
		return
	}

	result, err := c.service.Screen(r.Context(), thresholds)
	if err != nil {
		c.renderError(w, r, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "tsv") {
		w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
		w.Header().Set("X-Run-ID", result.RunID)
		if err := compound.WriteTSV(w, result.Result); err != nil {
			slog.Warn("写出TSV结果失败", "run_id", result.RunID, "error", err)
		}
		return
	}
	render.JSON(w, r, SuccessResponse("筛选成功", result))
}

// ScreenSubmitted 筛选请求中提交的化合物表
// @Summary 筛选提交的化合物
// @Description 对请求体中的化合物列表计算描述符并筛选，阈值缺省时使用五规则默认值
// @Tags 化合物筛选
// @Accept json
// @Produce json
// @Param request body ScreenRequest true "化合物列表与阈值"
// @Success 200 {object} APIResponse{data=models.ScreeningResult}
// @Failure 400 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /compounds/screen [post]
func (c *CompoundController) ScreenSubmitted(w http.ResponseWriter, r *http.Request) {
	var req ScreenRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if len(req.Compounds) > MaxSubmittedCompounds {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("单次最多提交 %d 个化合物", MaxSubmittedCompounds), nil))
		return
	}

	thresholds := compound.DefaultThresholds
	if req.Thresholds != nil {
		thresholds = *req.Thresholds
	}
	table := &models.CompoundTable{
		Columns: []string{models.DefaultNameColumn, models.DefaultSmilesColumn},
		Records: req.Compounds,
	}

	result, err := c.service.ScreenTable(r.Context(), table, thresholds)
	if err != nil {
		c.renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("筛选成功", result))
}

// GetDescriptors 计算单个结构编码的描述符
// @Summary 计算描述符
// @Description 计算单个SMILES的精确分子量、LogP、氢键供体数与受体数，并给出是否满足默认五规则
// @Tags 化合物筛选
// @Produce json
// @Param smiles query string true "SMILES结构编码"
// @Success 200 {object} APIResponse{data=DescriptorResponse}
// @Failure 400 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Router /compounds/descriptors [get]
func (c *CompoundController) GetDescriptors(w http.ResponseWriter, r *http.Request) {
	smiles := strings.TrimSpace(r.URL.Query().Get("smiles"))
	if smiles == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("smiles参数不能为空", nil))
		return
	}

	set, err := c.service.Describe(smiles)
	if err != nil {
		c.renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("计算成功", DescriptorResponse{
		Smiles:      smiles,
		Descriptors: set,
		Admitted:    compound.DefaultThresholds.Admits(set),
	}))
}

// GetThresholds 获取默认阈值与建议范围
// @Summary 获取阈值元数据
// @Description 获取五规则默认阈值及各阈值输入的建议范围
// @Tags 化合物筛选
// @Produce json
// @Success 200 {object} APIResponse{data=ThresholdsResponse}
// @Router /compounds/thresholds [get]
func (c *CompoundController) GetThresholds(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("获取阈值元数据成功", ThresholdsResponse{
		Defaults: compound.DefaultThresholds,
		Ranges:   compound.ThresholdRanges,
	}))
}

// GetRules 获取五规则说明
// @Summary 获取五规则说明
// @Description 获取Lipinski五规则的定义、各条规则与例外情况
// @Tags 化合物筛选
// @Produce json
// @Success 200 {object} APIResponse{data=compound.RuleSet}
// @Router /compounds/rules [get]
func (c *CompoundController) GetRules(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("获取五规则说明成功", compound.Ro5Rules))
}

// renderError 按错误类型映射状态码
func (c *CompoundController) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var unavailableErr *dataset.SourceUnavailableError
	switch {
	case descriptor.IsParseError(err):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ErrorResponse(http.StatusUnprocessableEntity, "结构编码无法解析", err))
	case errors.As(err, &unavailableErr):
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, ErrorResponse(http.StatusBadGateway, "数据集不可用", err))
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("筛选失败", err))
	}
}

// ParseThresholds 从查询参数解析阈值，缺省项使用五规则默认值
func ParseThresholds(r *http.Request) (models.Thresholds, error) {
	q := r.URL.Query()
	t := compound.DefaultThresholds

	if v := q.Get("mol_weight"); v != "" {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return t, fmt.Errorf("mol_weight: %w", err)
		}
		t.MolWeight = f
	}
	if v := q.Get("logp"); v != "" {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return t, fmt.Errorf("logp: %w", err)
		}
		t.LogP = f
	}
	if v := q.Get("hdonors"); v != "" {
		n, err := parseCount(v)
		if err != nil {
			return t, fmt.Errorf("hdonors: %w", err)
		}
		t.HDonors = n
	}
	if v := q.Get("hacceptors"); v != "" {
		n, err := parseCount(v)
		if err != nil {
			return t, fmt.Errorf("hacceptors: %w", err)
		}
		t.HAcceptors = n
	}
	return t, nil
}

// parseCount 解析整数计数阈值，小数不做截断而是报错
func parseCount(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("需要整数: %q", v)
	}
	return n, nil
}
