package descriptor

import (
	"errors"
	"testing"

	"ro5-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolkitCalculator_Aspirin(t *testing.T) {
	calc := NewToolkitCalculator()
	encoding := "CC(=O)OC1=CC=CC=C1C(=O)O"

	mass, err := calc.ComputeMass(encoding)
	require.NoError(t, err)
	assert.InDelta(t, 180.042, mass, 1e-3)

	logp, err := calc.ComputePartitionCoefficient(encoding)
	require.NoError(t, err)
	assert.InDelta(t, 1.31, logp, 0.01)

	donors, err := calc.ComputeDonorCount(encoding)
	require.NoError(t, err)
	assert.Equal(t, 1, donors)

	acceptors, err := calc.ComputeAcceptorCount(encoding)
	require.NoError(t, err)
	assert.Equal(t, 3, acceptors)
}

func TestToolkitCalculator_DescribeMatchesSeparateCalls(t *testing.T) {
	calc := NewToolkitCalculator()
	for _, encoding := range []string{"CCO", "c1ccncc1", "CC(N)=O", "Oc1ccccc1"} {
		set, err := calc.Describe(encoding)
		require.NoError(t, err)

		mass, _ := calc.ComputeMass(encoding)
		logp, _ := calc.ComputePartitionCoefficient(encoding)
		donors, _ := calc.ComputeDonorCount(encoding)
		acceptors, _ := calc.ComputeAcceptorCount(encoding)
		assert.Equal(t, models.DescriptorSet{MW: mass, LogP: logp, HDonors: donors, HAcceptors: acceptors}, set, encoding)
	}
}

func TestToolkitCalculator_ParseError(t *testing.T) {
	calc := NewToolkitCalculator()
	testCases := []struct {
		name     string
		encoding string
	}{
		{name: "非法编码", encoding: "NOT_A_VALID_ENCODING"},
		{name: "空编码", encoding: ""},
		{name: "空白编码", encoding: "   "},
		{name: "未闭合环", encoding: "C1CC"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.ComputeMass(tc.encoding)
			require.Error(t, err)
			assert.True(t, IsParseError(err))

			_, err = Compute(calc, tc.encoding)
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tc.encoding, pe.Encoding)
		})
	}
}

func TestCompute_FallsBackToSeparateCalls(t *testing.T) {
	calls := 0
	calc := FuncCalculator{
		MassFunc:      func(string) (float64, error) { calls++; return 100, nil },
		LogPFunc:      func(string) (float64, error) { calls++; return -1.5, nil },
		DonorsFunc:    func(string) (int, error) { calls++; return 2, nil },
		AcceptorsFunc: func(string) (int, error) { calls++; return 3, nil },
	}

	set, err := Compute(calc, "C")
	require.NoError(t, err)
	assert.Equal(t, models.DescriptorSet{MW: 100, LogP: -1.5, HDonors: 2, HAcceptors: 3}, set)
	assert.Equal(t, 4, calls, "四个描述符各调用一次")
}

func TestCompute_StopsAtFirstError(t *testing.T) {
	boom := &ParseError{Encoding: "X", Reason: "bad"}
	calc := FuncCalculator{
		MassFunc:      func(string) (float64, error) { return 0, boom },
		LogPFunc:      func(string) (float64, error) { t.Fatal("不应继续计算"); return 0, nil },
		DonorsFunc:    func(string) (int, error) { return 0, nil },
		AcceptorsFunc: func(string) (int, error) { return 0, nil },
	}

	_, err := Compute(calc, "X")
	assert.Same(t, boom, err)
}

func TestTableCalculator(t *testing.T) {
	calc := TableCalculator{"A": {MW: 1, LogP: 2, HDonors: 3, HAcceptors: 4}}

	set, err := Compute(calc, "A")
	require.NoError(t, err)
	assert.Equal(t, 4, set.HAcceptors)

	_, err = Compute(calc, "B")
	assert.True(t, IsParseError(err))
}
