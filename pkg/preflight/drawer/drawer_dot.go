package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-preflight/pkg/preflight/measure"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

type rgb struct{ r, g, b uint8 }

var outcomeColours = map[model.Outcome]rgb{
	model.Succeeded: {46, 160, 67},
	model.Skipped:   {140, 140, 140},
	model.Failed:    {220, 38, 38},
	model.NotRun:    {200, 200, 200},
}

// DOTDrawer is a drawer that creates a Graphviz DOT file with the pipeline graph.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	parents  map[string]string
	fileName string
}

// NewDOTDrawer creates a new DOT drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
		parents:  make(map[string]string),
	}
}

// AddStep adds a step to the pipeline graph. Steps start as not run.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("shape", "box"))
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	return d.SetOutcome(name, model.NotRun)
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	d.parents[childrenName] = parentName

	return nil
}

// SetOutcome colours the step according to its outcome.
func (d *DOTDrawer) SetOutcome(stepName string, outcome model.Outcome) error {
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrapf(err, "unable to get vertex properties of %s", stepName)
	}

	colour, ok := outcomeColours[outcome]
	if !ok {
		return errors.Errorf("unknown outcome %q", outcome)
	}

	hex, err := colors.RGB(colour.r, colour.g, colour.b) //nolint
	if err != nil {
		return errors.Wrap(err, "unable to get colour")
	}

	properties.Attributes["color"] = hex.ToHEX().String()
	properties.Attributes["tooltip"] = string(outcome)

	if outcome == model.NotRun {
		properties.Attributes["style"] = "dashed"
	} else {
		delete(properties.Attributes, "style")
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels every step with its duration and colours the incoming edge from blue (fast) to red (slow).
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()
	if len(metrics) == 0 {
		return nil
	}

	durations := []time.Duration{}
	for _, mt := range metrics {
		durations = append(durations, mt.Duration())
	}

	sort.Slice(durations, func(i, j int) bool {
		return durations[i] > durations[j]
	})

	maxValue := durations[0]
	minValue := durations[len(durations)-1]

	for name, mt := range metrics {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrapf(err, "unable to get vertex properties of %s", name)
		}

		elapsed := mt.Duration()
		if elapsed != 0 {
			properties.Attributes["xlabel"] = elapsed.String()
		}

		if total := mt.GetTotalDuration(); total > 0 {
			if properties.Attributes["xlabel"] != "" {
				properties.Attributes["xlabel"] += ", "
			}

			properties.Attributes["xlabel"] += "end: " + measure.Round(total).String()
		}

		parent, ok := d.parents[name]
		if !ok || elapsed == 0 {
			continue
		}

		heat, err := heatColour(elapsed, minValue, maxValue)
		if err != nil {
			return err
		}

		err = d.graph.UpdateEdge(parent, name,
			graph.EdgeAttribute("label", elapsed.String()),
			graph.EdgeAttribute("fontcolor", "blue"),
			graph.EdgeAttribute("color", heat),
		)
		if err != nil {
			return errors.Wrap(err, "unable to update edge")
		}
	}

	return nil
}

func heatColour(curr, minValue, maxValue time.Duration) (string, error) {
	fraction := 1.0
	if maxValue > minValue {
		fraction = float64(curr-minValue) / float64(maxValue-minValue)
	}

	red := maxRGB * fraction
	blue := maxRGB - maxRGB*fraction

	colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

// Draw writes the DOT description of the pipeline graph to the file.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the [dot] function.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func generateDOT[K comparable, T any](gra graph.Graph[K, T], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   map[string]string{"rankdir": "LR"},
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for vertex, adjacencies := range adjacencyMap {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))

		for k, v := range sourceProperties.Attributes {
			sourceAttributes[k] = v
		}

		if xlabel, ok := sourceAttributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(sourceAttributes, "xlabel")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		for adjacency, edge := range adjacencies {
			stmt := statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
