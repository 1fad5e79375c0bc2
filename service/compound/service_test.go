package compound

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ro5-service/service/dataset"
	"ro5-service/service/descriptor"
	"ro5-service/service/metrics"
	"ro5-service/service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource 模拟数据来源
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Load(ctx context.Context) (*models.CompoundTable, error) {
	args := m.Called(ctx)
	table, _ := args.Get(0).(*models.CompoundTable)
	return table, args.Error(1)
}

func (m *MockSource) Describe() string {
	return "mock://drugs"
}

// memoryCache 进程内缓存
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]models.AugmentedCompound
	getErr  error
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]models.AugmentedCompound{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]models.AugmentedCompound, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Put(_ context.Context, key string, augmented []models.AugmentedCompound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = augmented
	c.puts++
	return nil
}

// countingCalculator 带版本号并统计调用次数的查表计算器
type countingCalculator struct {
	descriptor.TableCalculator
	mu    sync.Mutex
	calls int
}

func (c *countingCalculator) Describe(encoding string) (models.DescriptorSet, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.TableCalculator.Describe(encoding)
}

func (c *countingCalculator) Version() string { return "table-v1" }

func drugs() *models.CompoundTable {
	return &models.CompoundTable{
		Columns: []string{models.DefaultNameColumn, models.DefaultSmilesColumn},
		Records: []models.CompoundRecord{
			{Name: "Aspirin", Smiles: "ASPIRIN"},
			{Name: "Macrolide", Smiles: "MACROLIDE"},
			{Name: "Caffeine", Smiles: "CAFFEINE"},
			{Name: "Unknown", Smiles: ""},
		},
	}
}

func newCalculator() *countingCalculator {
	return &countingCalculator{TableCalculator: descriptor.TableCalculator{
		"ASPIRIN":   {MW: 180.04, LogP: 1.31, HDonors: 1, HAcceptors: 3},
		"MACROLIDE": {MW: 900.1, LogP: 2.0, HDonors: 4, HAcceptors: 9},
		"CAFFEINE":  {MW: 194.08, LogP: -1.03, HDonors: 0, HAcceptors: 6},
	}}
}

func TestService_Screen(t *testing.T) {
	source := new(MockSource)
	source.On("Load", mock.Anything).Return(drugs(), nil)
	svc := NewService(source, newCalculator(), nil, 1)

	result, err := svc.Screen(context.Background(), DefaultThresholds)
	require.NoError(t, err)
	source.AssertExpectations(t)

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err, "运行ID为UUID")
	assert.Equal(t, "mock://drugs", result.Source)
	assert.Equal(t, DefaultThresholds, result.Thresholds)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Matched)
	assert.False(t, result.CacheHit)
	require.Equal(t, 2, result.Result.Len())
	assert.Equal(t, "Caffeine", result.Result.Rows[0].GenericName)
	assert.Equal(t, "Aspirin", result.Result.Rows[1].GenericName)
}

func TestService_ScreenUsesCache(t *testing.T) {
	source := new(MockSource)
	source.On("Load", mock.Anything).Return(drugs(), nil)
	calc := newCalculator()
	c := newMemoryCache()
	svc := NewService(source, calc, c, 2)

	first, err := svc.Screen(context.Background(), DefaultThresholds)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 3, calc.calls)
	assert.Equal(t, 1, c.puts)

	loose := models.Thresholds{MolWeight: 1000, LogP: 10, HDonors: 10, HAcceptors: 20}
	second, err := svc.Screen(context.Background(), loose)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 3, calc.calls, "缓存命中时不重新计算")
	assert.Equal(t, 3, second.Matched, "阈值每次重新应用")
	source.AssertNumberOfCalls(t, "Load", 2)
}

func TestService_CacheErrorFallsBack(t *testing.T) {
	source := new(MockSource)
	source.On("Load", mock.Anything).Return(drugs(), nil)
	c := newMemoryCache()
	c.getErr = errors.New("redis down")
	svc := NewService(source, newCalculator(), c, 1)

	result, err := svc.Screen(context.Background(), DefaultThresholds)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Matched)
	assert.False(t, result.CacheHit)
}

func TestService_UnversionedCalculatorSkipsCache(t *testing.T) {
	c := newMemoryCache()
	svc := NewService(nil, newCalculator().TableCalculator, c, 1)

	_, err := svc.ScreenTable(context.Background(), drugs(), DefaultThresholds)
	require.NoError(t, err)
	assert.Zero(t, c.puts)
}

func TestService_ScreenErrors(t *testing.T) {
	t.Run("数据来源不可用", func(t *testing.T) {
		source := new(MockSource)
		unavailable := &dataset.SourceUnavailableError{Source: "mock://drugs", Err: errors.New("timeout")}
		source.On("Load", mock.Anything).Return(nil, unavailable)
		svc := NewService(source, newCalculator(), nil, 1)

		result, err := svc.Screen(context.Background(), DefaultThresholds)
		assert.Nil(t, result)
		assert.Same(t, unavailable, err)
		assert.Equal(t, metrics.ResultUnavailable, ResultLabel(err))
	})

	t.Run("未配置数据来源", func(t *testing.T) {
		_, err := NewService(nil, newCalculator(), nil, 1).Screen(context.Background(), DefaultThresholds)
		var unavailableErr *dataset.SourceUnavailableError
		assert.True(t, errors.As(err, &unavailableErr))
	})

	t.Run("结构编码无法解析", func(t *testing.T) {
		table := drugs()
		table.Records = append(table.Records, models.CompoundRecord{Name: "Broken", Smiles: "NOT_A_VALID_ENCODING"})
		source := new(MockSource)
		source.On("Load", mock.Anything).Return(table, nil)
		c := newMemoryCache()
		svc := NewService(source, newCalculator(), c, 1)

		result, err := svc.Screen(context.Background(), DefaultThresholds)
		assert.Nil(t, result)
		assert.True(t, descriptor.IsParseError(err))
		assert.Equal(t, metrics.ResultParseError, ResultLabel(err))
		assert.Zero(t, c.puts, "失败的运行不写缓存")
	})
}

func TestService_ScreenTable(t *testing.T) {
	svc := NewService(nil, descriptor.NewToolkitCalculator(), nil, 1)
	table := &models.CompoundTable{Records: []models.CompoundRecord{
		{Name: "Ethanol", Smiles: "CCO"},
		{Name: "Benzene", Smiles: "c1ccccc1"},
	}}

	result, err := svc.ScreenTable(context.Background(), table, DefaultThresholds)
	require.NoError(t, err)
	assert.Equal(t, RequestSource, result.Source)
	require.Equal(t, 2, result.Matched)
	assert.Equal(t, "Benzene", result.Result.Rows[0].GenericName)

	empty, err := svc.ScreenTable(context.Background(), &models.CompoundTable{}, DefaultThresholds)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Matched)
}

func TestService_Warm(t *testing.T) {
	source := new(MockSource)
	source.On("Load", mock.Anything).Return(drugs(), nil)
	calc := newCalculator()
	c := newMemoryCache()
	svc := NewService(source, calc, c, 1)

	n, err := svc.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, c.puts)

	result, err := svc.Screen(context.Background(), DefaultThresholds)
	require.NoError(t, err)
	assert.True(t, result.CacheHit)
	assert.Equal(t, 3, calc.calls)
}

func TestService_Describe(t *testing.T) {
	svc := NewService(nil, descriptor.NewToolkitCalculator(), nil, 1)
	set, err := svc.Describe("CCO")
	require.NoError(t, err)
	assert.Equal(t, 1, set.HDonors)

	_, err = svc.Describe("C1CC")
	assert.True(t, descriptor.IsParseError(err))
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, metrics.ResultSuccess, ResultLabel(nil))
	assert.Equal(t, metrics.ResultError, ResultLabel(context.Canceled))
}

func TestThresholdRanges(t *testing.T) {
	require.Len(t, ThresholdRanges, 4)
	for _, r := range ThresholdRanges {
		assert.True(t, r.Min <= r.Default && r.Default <= r.Max, r.Key)
	}
	assert.Len(t, Ro5Rules.Rules, 5)
}
