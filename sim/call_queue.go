package sim

// callQueue implements heap.Interface over active calls.
// Ordering: next-event time → admission sequence.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-PriorityQueue
type callQueue []*MobileCall

func (q callQueue) Len() int { return len(q) }

func (q callQueue) Less(i, j int) bool {
	_, ti := q[i].NextEvent()
	_, tj := q[j].NextEvent()
	if ti != tj {
		return ti < tj
	}
	return q[i].seq < q[j].seq
}

func (q callQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *callQueue) Push(x any) {
	c := x.(*MobileCall)
	c.index = len(*q)
	*q = append(*q, c)
}

func (q *callQueue) Pop() any {
	old := *q
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	c.index = -1
	*q = old[0 : n-1]
	return c
}
