package main

// A Task is a long running operation whose only result is its
// terminal error.
type Task interface {
	Run() error
}

// Start runs the task in its own goroutine. The returned channel
// receives the result of Run() and is closed afterward.
func Start(t Task) <-chan error {
	errs := make(chan error)
	go func() {
		defer close(errs)
		errs <- t.Run()
	}()
	return errs
}
