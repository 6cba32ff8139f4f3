package sim

import "context"

// TickRequest asks the runner to advance the world.
type TickRequest struct {
	Times int
}

// Run moves the simulation onto its own goroutine and exposes it through
// channels: push TickRequests in, receive a View after each request. The
// loop exits when the request channel is closed or the context is
// canceled; the view channel is closed on the way out.
func Run(ctx context.Context, s *Sim, inbound, outbound int) (chan<- TickRequest, <-chan View) {
	requests := make(chan TickRequest, inbound)
	views := make(chan View, outbound)

	go func() {
		defer close(views)
		for {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-requests:
				if !ok {
					return
				}
				s.Tick(req.Times)
				select {
				case <-ctx.Done():
					return
				case views <- s.View():
				}
			}
		}
	}()

	return requests, views
}
