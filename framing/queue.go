// Package framing
package framing

// frameQueue is a FIFO of decoded frames awaiting the application.
// Frames arrive in transport order on a single connection, so arrival
// order is the only order.
type frameQueue struct {
	head *qnode
	tail *qnode
	size int
}

type qnode struct {
	next  *qnode
	frame *Frame
}

func newFrameQueue() *frameQueue {
	return &frameQueue{}
}

func (q *frameQueue) push(f *Frame) {
	n := &qnode{frame: f}
	if q.tail == nil {
		q.head = n
		q.tail = n
	} else {
		q.tail.next = n
		q.tail = n
	}
	q.size++
}

func (q *frameQueue) pop() *Frame {
	if q.head == nil {
		return nil
	}
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--
	return n.frame
}

func (q *frameQueue) len() int {
	return q.size
}
