package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AnatoleLucet/fiber"
	"gopkg.in/yaml.v3"
)

var (
	errEmptyScene = errors.New("scene has no root node")
	errMissingTag = errors.New("missing tag")
)

// sceneNode is one node of a YAML scene. A plain scalar in a children list
// is a text leaf.
type sceneNode struct {
	Tag      string         `yaml:"tag"`
	Text     *string        `yaml:"text"`
	Props    map[string]any `yaml:"props"`
	Children []sceneNode    `yaml:"children"`
}

func (n *sceneNode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		text := node.Value
		n.Text = &text
		return nil
	}

	type plain sceneNode
	return node.Decode((*plain)(n))
}

func (n sceneNode) element() (*fiber.Element, error) {
	if n.Text != nil {
		return fiber.Text(*n.Text), nil
	}
	if n.Tag == "" {
		return nil, errMissingTag
	}

	children := make([]any, 0, len(n.Children))
	for i, c := range n.Children {
		el, err := c.element()
		if err != nil {
			return nil, fmt.Errorf("%s child %d: %w", n.Tag, i, err)
		}
		children = append(children, el)
	}

	return fiber.H(n.Tag, n.Props, children...), nil
}

// parseScene decodes a YAML document into an element tree.
func parseScene(data []byte) (*fiber.Element, error) {
	var root sceneNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if root.Tag == "" && root.Text == nil {
		return nil, errEmptyScene
	}

	return root.element()
}

func loadScene(path string) (*fiber.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}

	return parseScene(data)
}
