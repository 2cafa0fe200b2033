package systems

import (
	"container/heap"
	"time"

	"github.com/jonboulle/clockwork"
)

// TimerID 计时器编号，0 表示无效
type TimerID uint64

// scheduledTimer 一个待触发的回调
type scheduledTimer struct {
	id       TimerID
	deadline time.Time
	interval time.Duration // > 0 表示周期计时器
	fn       func()
	seq      uint64 // 同一截止时间按创建顺序触发
	index    int
}

// timerHeap 按截止时间排序的小顶堆
type timerHeap []*scheduledTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*scheduledTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler 单线程计时器队列
//
// 所有回调都在 Poll 中、调用方的 goroutine 上执行，
// 因此回调可以直接修改游戏状态而无需加锁。
// Poll 由游戏主循环每帧调用一次。
type Scheduler struct {
	clock  clockwork.Clock
	queue  timerHeap
	byID   map[TimerID]*scheduledTimer
	nextID TimerID
	seq    uint64
}

// NewScheduler 创建计时器队列
func NewScheduler(clock clockwork.Clock) *Scheduler {
	return &Scheduler{
		clock:  clock,
		byID:   make(map[TimerID]*scheduledTimer),
		nextID: 1,
	}
}

// Clock 返回时间源
func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

// AfterFunc 在 d 之后执行一次 fn
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) TimerID {
	return s.schedule(d, 0, fn)
}

// Every 每隔 interval 执行一次 fn，首次在 interval 之后
func (s *Scheduler) Every(interval time.Duration, fn func()) TimerID {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.schedule(interval, interval, fn)
}

func (s *Scheduler) schedule(d, interval time.Duration, fn func()) TimerID {
	id := s.nextID
	s.nextID++
	s.seq++

	t := &scheduledTimer{
		id:       id,
		deadline: s.clock.Now().Add(d),
		interval: interval,
		fn:       fn,
		seq:      s.seq,
	}
	heap.Push(&s.queue, t)
	s.byID[id] = t
	return id
}

// Cancel 取消计时器，返回是否确实取消了一个待触发的计时器
func (s *Scheduler) Cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	if t.index >= 0 {
		heap.Remove(&s.queue, t.index)
	}
	return true
}

// CancelAll 取消所有计时器
func (s *Scheduler) CancelAll() {
	s.queue = s.queue[:0]
	s.byID = make(map[TimerID]*scheduledTimer)
}

// Pending 返回待触发的计时器数量
func (s *Scheduler) Pending() int {
	return len(s.byID)
}

// Poll 执行所有已到期的回调，返回执行次数
//
// 周期计时器从上一次的截止时间重新计时；若落后多个周期，
// 每次 Poll 最多补触发一次，避免卡顿后集中爆发。
func (s *Scheduler) Poll() int {
	now := s.clock.Now()
	fired := 0

	// 只处理本次 Poll 开始前已到期的计时器，
	// 回调中新建的计时器留到下一帧
	var due []*scheduledTimer
	for len(s.queue) > 0 && !s.queue[0].deadline.After(now) {
		due = append(due, heap.Pop(&s.queue).(*scheduledTimer))
	}

	for _, t := range due {
		// 前面的回调可能已经取消了它
		if _, ok := s.byID[t.id]; !ok {
			continue
		}

		if t.interval > 0 {
			t.deadline = t.deadline.Add(t.interval)
			if !t.deadline.After(now) {
				t.deadline = now.Add(t.interval)
			}
			s.seq++
			t.seq = s.seq
			heap.Push(&s.queue, t)
		} else {
			delete(s.byID, t.id)
		}

		t.fn()
		fired++
	}
	return fired
}
