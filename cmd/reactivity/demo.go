package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactivity/pkg/reactivity"
	"github.com/vango-dev/reactivity/pkg/render"
	"github.com/vango-dev/reactivity/pkg/vdom"
)

// scenario is one self-checking demonstration.
type scenario struct {
	name string
	run  func() (got, want string)
}

type demoObject struct {
	A int
}

var scenarios = []scenario{
	{"ref write is deduplicated", scenarioRefDedup},
	{"computed through a reactive object", scenarioComputed},
	{"computed effects run before plain effects", scenarioOrdering},
	{"repeated reads subscribe once", scenarioDepUniqueness},
	{"proxy writes always trigger", scenarioProxySameValue},
	{"wrapping is idempotent", scenarioIdempotence},
}

func demoCmd(flags *globalFlags) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the reference scenarios and a render walkthrough",
		Long: `Run the reference reactivity scenarios, checking each result, then
render a small component tree into an in-memory host and show the
host operations caused by a single state change.

Examples:
  reactivity demo
  reactivity demo --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if trace {
				level := new(slog.LevelVar)
				level.Set(slog.LevelDebug)
				reactivity.SetLogger(newLogger(cmd.ErrOrStderr(), cfg.Log.Format, level))
				defer reactivity.SetLogger(nil)
			}
			return runDemo(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "Log every track and trigger to stderr")

	return cmd
}

func runDemo(w io.Writer) error {
	fmt.Fprintln(w, "Scenarios")
	failed := 0
	for _, s := range scenarios {
		got, want := s.run()
		if got == want {
			success(w, "%s: %s", s.name, got)
			continue
		}
		failed++
		failure(w, "%s: got %s, want %s", s.name, got, want)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render")
	renderDemo(w)

	stats := reactivity.ReadStats()
	fmt.Fprintln(w)
	info(w, "effects created: %d, runs: %d, tracks: %d, triggers: %d",
		stats.EffectsCreated, stats.Runs, stats.Tracks, stats.Triggers)

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return nil
}

func scenarioRefDedup() (string, string) {
	r := reactivity.NewRef(1)
	var log []int
	e := reactivity.CreateEffect(func() { log = append(log, r.Get()) })
	defer e.Stop()

	r.Set(2)
	r.Set(2)
	return fmt.Sprint(log), "[1 2]"
}

func scenarioComputed() (string, string) {
	o := reactivity.MustReactive(&demoObject{A: 1})
	c := reactivity.NewComputed(func() int { return reactivity.Field[int](o, "A") * 2 })
	defer c.Stop()

	var log []int
	e := reactivity.CreateEffect(func() { log = append(log, c.Get()) })
	defer e.Stop()

	o.Set("A", 5)
	return fmt.Sprint(log), "[2 10]"
}

func scenarioOrdering() (string, string) {
	r := reactivity.NewRef(0)
	var order []string

	plain := reactivity.CreateEffect(func() {
		r.Get()
		order = append(order, "plain")
	})
	defer plain.Stop()

	c := reactivity.NewComputed(func() int {
		order = append(order, "computed")
		return r.Get() + 1
	})
	defer c.Stop()

	derived := reactivity.CreateEffect(func() {
		order = append(order, fmt.Sprintf("derived=%d", c.Get()))
	})
	defer derived.Stop()

	order = order[:0]
	r.Set(1)
	return fmt.Sprint(order), "[computed derived=2 plain]"
}

func scenarioDepUniqueness() (string, string) {
	o := reactivity.MustReactive(&demoObject{})
	runs := 0
	e := reactivity.CreateEffect(func() {
		o.Get("A")
		o.Get("A")
		runs++
	})
	defer e.Stop()

	o.Set("A", 1)
	return fmt.Sprintf("runs=%d deps=%d", runs, e.Deps()), "runs=2 deps=1"
}

func scenarioProxySameValue() (string, string) {
	o := reactivity.MustReactive(&demoObject{A: 3})
	runs := 0
	e := reactivity.CreateEffect(func() {
		o.Get("A")
		runs++
	})
	defer e.Stop()

	o.Set("A", 3)
	return fmt.Sprintf("runs=%d", runs), "runs=2"
}

func scenarioIdempotence() (string, string) {
	obj := &demoObject{}
	a := reactivity.MustReactive(obj)
	b := reactivity.MustReactive(obj)

	r := reactivity.NewRef(0)
	same, err := reactivity.RefOf[int](r)
	if err != nil {
		return err.Error(), "same proxy, same ref"
	}

	var got []string
	if a == b {
		got = append(got, "same proxy")
	}
	if same == r {
		got = append(got, "same ref")
	}
	return strings.Join(got, ", "), "same proxy, same ref"
}

// renderDemo mounts a counter into a MemoryHost and reports what one
// increment costs.
func renderDemo(w io.Writer) {
	host := render.NewMemoryHost()
	root := host.Container()
	r := render.New[*render.Node](host)

	count := reactivity.NewRef(0)
	label := vdom.Func(func(props vdom.Props, children vdom.Children) *vdom.VNode {
		return vdom.Element("span", vdom.Props{"class": "label"}, props["text"].(string))
	})

	app := r.Mount(root, func() *vdom.VNode {
		n := count.Get()
		return vdom.Element("div", vdom.Props{"id": "counter"},
			vdom.Comp(label, vdom.Props{"text": "Count"}),
			vdom.Element("b", nil, fmt.Sprint(n)),
			vdom.If(n > 0, vdom.Element("em", nil, "changed")),
		)
	})
	defer app.Unmount()

	info(w, "mounted:  %s", root.HTML())
	host.Reset()

	count.Set(1)
	info(w, "updated:  %s", root.HTML())

	for _, op := range host.Ops() {
		info(w, "  %s", describeOp(op))
	}
}

func describeOp(op render.Op) string {
	switch {
	case op.Key != "":
		return fmt.Sprintf("%s node=%d %s=%v", op.Kind, op.Node, op.Key, op.Value)
	case op.Value != "":
		return fmt.Sprintf("%s node=%d %q", op.Kind, op.Node, op.Value)
	case op.Parent != 0:
		return fmt.Sprintf("%s node=%d parent=%d", op.Kind, op.Node, op.Parent)
	default:
		return fmt.Sprintf("%s node=%d", op.Kind, op.Node)
	}
}
