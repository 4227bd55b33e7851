package pipeline

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-skip/internal/transcript"
)

// WorkItem is a transcript group queued for analysis. Seq is its position
// in the input.
type WorkItem struct {
	Seq   int
	Group *transcript.Group
}

// WorkResult is the analysis of one queued group.
type WorkResult struct {
	Seq    int
	Group  *transcript.Group
	Result *Result
	Err    error
}

func (f *Finder) poolSize() int {
	if f.workers <= 0 {
		return runtime.NumCPU()
	}
	return f.workers
}

// ParallelFind runs Find over items on a pool of workers and sends results
// in completion order. Workers stop taking items once done is closed; the
// returned channel is closed after every worker has exited.
// If workers is 0, runtime.NumCPU() is used.
func (f *Finder) ParallelFind(done <-chan struct{}, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for {
				var (
					item WorkItem
					ok   bool
				)
				select {
				case <-done:
					return
				case item, ok = <-items:
					if !ok {
						return
					}
				}

				res, err := f.Find(item.Group)
				select {
				case <-done:
					return
				case results <- WorkResult{Seq: item.Seq, Group: item.Group, Result: res, Err: err}:
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect hands results to fn by sequence number, holding back
// results that arrive early. When fn fails, cancel is called (if not nil)
// and the remaining results are discarded until the channel closes.
func OrderedCollect(results <-chan WorkResult, cancel func(), fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	for r := range results {
		held[r.Seq] = r

		for rr, ok := held[next]; ok; rr, ok = held[next] {
			delete(held, next)
			next++
			if err := fn(rr); err != nil {
				if cancel != nil {
					cancel()
				}
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
