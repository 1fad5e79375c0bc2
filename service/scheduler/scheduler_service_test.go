package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ro5-service/service/distributed_lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWarmer struct {
	calls   atomic.Int32
	records int
	err     error
}

func (f *fakeWarmer) Warm(context.Context) (int, error) {
	f.calls.Add(1)
	return f.records, f.err
}

func TestRunOnce(t *testing.T) {
	warmer := &fakeWarmer{records: 1200}
	s := NewSchedulerService(warmer, nil, "")
	defer s.Stop()

	require.NoError(t, s.RunOnce(context.Background()))
	status := s.Status()
	assert.Equal(t, 1, status.Runs)
	assert.Equal(t, 1200, status.Records)
	assert.NotNil(t, status.LastRunAt)
	assert.Empty(t, status.LastError)
	assert.False(t, status.Running)
}

func TestRunOnce_Error(t *testing.T) {
	warmer := &fakeWarmer{err: errors.New("数据来源不可用")}
	s := NewSchedulerService(warmer, nil, "")
	defer s.Stop()

	assert.Error(t, s.RunOnce(context.Background()))
	assert.Equal(t, "数据来源不可用", s.Status().LastError)
}

func TestRunOnce_SkipsWhenLocked(t *testing.T) {
	lock := distributed_lock.NewLocalLock()
	held, err := lock.TryLock(context.Background(), refreshLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, held)

	warmer := &fakeWarmer{}
	s := NewSchedulerService(warmer, lock, "")
	defer s.Stop()

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Zero(t, warmer.calls.Load(), "锁被其他实例持有时不执行")
	assert.Zero(t, s.Status().Runs)
}

func TestStart(t *testing.T) {
	t.Run("未配置计划", func(t *testing.T) {
		s := NewSchedulerService(&fakeWarmer{}, nil, "")
		require.NoError(t, s.Start())
		s.Stop()
	})

	t.Run("无效计划", func(t *testing.T) {
		s := NewSchedulerService(&fakeWarmer{}, nil, "not a cron")
		assert.Error(t, s.Start())
		s.Stop()
	})

	t.Run("按计划执行", func(t *testing.T) {
		warmer := &fakeWarmer{records: 3}
		s := NewSchedulerService(warmer, nil, "* * * * * *")
		require.NoError(t, s.Start())
		assert.Eventually(t, func() bool { return warmer.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
		s.Stop()
		assert.Equal(t, 3, s.Status().Records)
	})
}
