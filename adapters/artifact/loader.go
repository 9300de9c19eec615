package artifact

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"kardia/domain/core"
	"kardia/domain/model"
)

//go:embed model.json
var embeddedModel []byte

// document mirrors the JSON layout of a trained model artifact
type document struct {
	Version       string                   `json:"version"`
	Target        string                   `json:"target"`
	PositiveLabel string                   `json:"positive_label"`
	Features      []string                 `json:"features"`
	Encoders      map[string][]string      `json:"encoders"`
	Bins          map[string]model.BinRule `json:"bins"`
	Network       struct {
		Nodes []nodeSpec `json:"nodes"`
	} `json:"network"`
}

type nodeSpec struct {
	Name    string    `json:"name"`
	Parents []string  `json:"parents"`
	CPT     []float64 `json:"cpt"`
}

// Load reads a model artifact from disk. An empty path falls back to the
// artifact embedded in the binary, so the service always has a model.
func Load(path string) (*model.ModelPackage, string, error) {
	data := embeddedModel
	source := "embedded"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, "", core.NewModelLoadError(fmt.Sprintf("reading %s", path), err)
		}
		data, source = b, path
	}

	pkg, version, err := parse(data)
	if err != nil {
		return nil, "", err
	}
	return pkg, fmt.Sprintf("%s (%s)", version, source), nil
}

func parse(data []byte) (*model.ModelPackage, string, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", core.NewModelLoadError("parsing artifact", err)
	}

	encoders := make(map[core.FeatureName]*model.SymbolEncoder, len(doc.Encoders))
	card := make(map[core.FeatureName]int, len(doc.Encoders))
	for name, classes := range doc.Encoders {
		enc, err := model.NewSymbolEncoder(core.FeatureName(name), classes)
		if err != nil {
			return nil, "", core.NewModelLoadError(fmt.Sprintf("encoder %s", name), err)
		}
		encoders[core.FeatureName(name)] = enc
		card[core.FeatureName(name)] = enc.Cardinality()
	}

	bins := make(map[core.FeatureName]model.BinRule, len(doc.Bins))
	for name, rule := range doc.Bins {
		bins[core.FeatureName(name)] = rule
	}
	discretizer, err := model.NewDiscretizer(bins)
	if err != nil {
		return nil, "", core.NewModelLoadError("bin rules", err)
	}

	nodes := make([]model.Node, 0, len(doc.Network.Nodes))
	for _, spec := range doc.Network.Nodes {
		parents := make([]core.FeatureName, len(spec.Parents))
		for i, p := range spec.Parents {
			parents[i] = core.FeatureName(p)
		}
		nodes = append(nodes, model.Node{
			Name:    core.FeatureName(spec.Name),
			Parents: parents,
			CPT:     spec.CPT,
		})
	}
	network, err := model.NewBayesianNetwork(nodes, card)
	if err != nil {
		return nil, "", core.NewModelLoadError("network", err)
	}

	features := make([]core.FeatureName, len(doc.Features))
	for i, f := range doc.Features {
		features[i] = core.FeatureName(f)
	}

	pkg := &model.ModelPackage{
		Network:       network,
		Encoders:      encoders,
		Discretizer:   discretizer,
		Features:      features,
		Target:        core.FeatureName(doc.Target),
		PositiveLabel: doc.PositiveLabel,
	}
	if err := pkg.Validate(); err != nil {
		return nil, "", core.NewModelLoadError("package validation", err)
	}
	return pkg, doc.Version, nil
}
