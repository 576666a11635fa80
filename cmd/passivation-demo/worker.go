package main

import (
	"fmt"

	"github.com/dreamware/passivation/internal/shard"
	"github.com/dreamware/passivation/internal/strategy"
)

// manuallyPassivate is a payload a caller sends to tell a demoWorker
// to passivate itself, mirroring how a real entity might decide to
// shut down on its own business logic rather than by policy.
type manuallyPassivate struct{}

// demoWorker is a stand-in entity: it just logs what it receives and
// acknowledges Stop asynchronously, the way a real worker would after
// finishing its own drain logic.
//
// It refers back to its owning Controller through a pointer set after
// Register returns, since spawn functions are handed to Register
// before the Controller they belong to exists.
type demoWorker struct {
	id   strategy.EntityID
	ctrl *controllerRef
	log  func(string)
}

// controllerRef is filled in once, right after Register returns a
// Controller for the shard a demoWorker's spawn function was given to.
type controllerRef struct {
	ctrl *shard.Controller
}

func newDemoWorker(ctrl *controllerRef, log func(string)) func(strategy.EntityID) shard.Worker {
	return func(id strategy.EntityID) shard.Worker {
		return &demoWorker{id: id, ctrl: ctrl, log: log}
	}
}

func (w *demoWorker) Deliver(msg any) {
	w.log(fmt.Sprintf("worker %s received %v", w.id, msg))
	if _, ok := msg.(manuallyPassivate); ok {
		// Must not call back into the controller inline: Deliver runs
		// with the controller's mutex held, and Passivate re-acquires
		// it. Off the controller's goroutine, same as Stop below.
		go w.ctrl.ctrl.Passivate(w.id, shard.StopSignal{})
	}
}

func (w *demoWorker) Stop(msg any) {
	w.log(fmt.Sprintf("worker %s received stop signal %v", w.id, msg))
	// The acknowledgement always arrives on its own goroutine: a real
	// worker's drain happens on its own schedule, never inline with
	// the controller's call into Stop.
	go w.ctrl.ctrl.Terminated(w.id)
}
