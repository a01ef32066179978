package main

import (
	"fmt"

	. "gopkg.in/check.v1"
)

type TaskSuite struct{}

var _ = Suite(&TaskSuite{})

type funcTask func() error

func (t funcTask) Run() error { return t() }

func (s *TaskSuite) TestForwardsTheTerminalError(c *C) {
	errs := Start(funcTask(func() error { return fmt.Errorf("boom") }))
	err, ok := <-errs
	c.Check(ok, Equals, true)
	c.Check(err, ErrorMatches, "boom")
	_, ok = <-errs
	c.Check(ok, Equals, false)
}

func (s *TaskSuite) TestForwardsANilResult(c *C) {
	errs := Start(funcTask(func() error { return nil }))
	err, ok := <-errs
	c.Check(ok, Equals, true)
	c.Check(err, IsNil)
}
