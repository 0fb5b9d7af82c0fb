package main

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer"
	"github.com/transformlab/transformer/gizmo"
	"github.com/transformlab/transformer/scene"
	"github.com/transformlab/transformer/scheduler"
	"github.com/transformlab/transformer/settings"
	"github.com/transformlab/transformer/tmath"
	"github.com/transformlab/transformer/trace"
	"github.com/transformlab/transformer/wire"
)

// receiver defers binding so a participant can attach to the hub before its
// coordinator is constructed.
type receiver struct {
	tf *transformer.Transformer
}

func (r *receiver) HandleMessage(from string, msg wire.Message) {
	r.tf.HandleMessage(from, msg)
}

var worlds []*scene.World

// replicate models the engine's actor replication: the authority's actor
// appears, identities intact, in every other participant's world.
func replicate(from *scene.World, a *scene.Actor) {
	for _, w := range worlds {
		if w != from {
			w.Adopt(a)
		}
	}
}

// The following program runs a three-participant editing session over the
// in-memory loopback hub: the server selects a crate, a client drags it
// along x, and the server clones it.
func main() {
	log := logrus.New()

	conf, err := settings.Load("transformer.toml")
	if err != nil {
		panic(err)
	}

	hub := wire.NewLoopback(log)
	sched := scheduler.NewManual()

	participant := func(id string, role transformer.Role) (*transformer.Transformer, *scene.World) {
		w := scene.NewWorld()
		w.SetClock(sched.Now)
		r := &receiver{}
		ep := hub.Attach(id, r, role == transformer.RoleAuthority)
		tf := transformer.New(log, id, role, w, trace.NewWorldTracer(w), ep, sched, conf)
		r.tf = tf
		worlds = append(worlds, w)
		return tf, w
	}

	server, serverWorld := participant("server", transformer.RoleAuthority)
	client, _ := participant("client", transformer.RoleAutonomousProxy)
	_, _ = participant("viewer", transformer.RoleSimulatedProxy)

	// One crate, spawned on the server and replicated to everyone.
	pose := tmath.Identity()
	pose.Translation = mgl32.Vec3{0, 0, -5}
	crate := serverWorld.SpawnActor("crate", pose)
	crate.FinishSpawn()
	crate.SetReplicated(true)
	crate.Root().SetReplicated(true)
	crate.Root().SetBounds(cube.Box(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5))
	replicate(serverWorld, crate)

	// The server clicks the crate; the selection is published to all.
	server.ReplicatedTrace(mgl32.Vec3{0, 0, 100}, mgl32.Vec3{0, 0, -100}, trace.FilterSpec{}, false)
	hub.Flush()
	server.LogSelected()

	// The client drags the crate two units along x and finishes.
	client.SetDomain(gizmo.DomainX)
	look := mgl32.Vec3{0, 0, -1}
	dir := mgl32.Vec3{0, 0, -1}
	client.Tick(look, mgl32.Vec3{0, 0, 10}, dir)
	client.Tick(look, mgl32.Vec3{2, 0, 10}, dir)
	client.FinishTransform()
	hub.Flush()

	pos := serverWorld.ResolvePart(crate.Root().ID()).WorldTransform().Translation
	log.Infof("crate now at %v on the server", pos)

	// The server clones the crate. The selection broadcast waits until the
	// clone has replicated, which the loop below simulates.
	server.CloneSelected(true, false)
	hub.Flush()
	for i := 0; i < 10; i++ {
		for _, p := range server.Selection().Parts() {
			if owner := p.Owner(); owner != nil && !owner.HasBegun() {
				owner.FinishSpawn()
				replicate(serverWorld, owner)
			}
		}
		sched.Advance(conf.CloneCheckInterval)
		hub.Flush()
		if !client.OutOfSync() && client.Selection().Len() == server.Selection().Len() {
			break
		}
	}

	log.Infof("server selection: %d, client selection: %d, client in sync: %v",
		server.Selection().Len(), client.Selection().Len(), !client.OutOfSync())
}
