package levelscheme

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/ensdfxml/core/errors"
	xmldoc "github.com/FocuswithJustin/ensdfxml/core/xml"
)

// Injectable for tests.
var (
	xzNewWriter = xz.NewWriter
	xzNewReader = xz.NewReader
)

// xzSuffix selects xz compression in WriteFile and ReadFile.
const xzSuffix = ".xz"

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlProperties struct {
	Items []xmlProperty `xml:"property"`
}

type xmlLevel struct {
	Index        int            `xml:"index,attr"`
	Energy       string         `xml:"energy"`
	Multiplicity int            `xml:"multiplicity"`
	Properties   *xmlProperties `xml:"properties,omitempty"`
}

type xmlTransition struct {
	From       int            `xml:"from,attr"`
	To         int            `xml:"to,attr"`
	EinsteinA  string         `xml:"a"`
	Properties *xmlProperties `xml:"properties,omitempty"`
}

type xmlSpecies struct {
	Name        string          `xml:"name,attr"`
	Properties  *xmlProperties  `xml:"properties,omitempty"`
	Levels      []xmlLevel      `xml:"levels>level"`
	Transitions []xmlTransition `xml:"transitions>transition"`
}

type xmlCollection struct {
	XMLName    xml.Name       `xml:"species_collection"`
	Properties *xmlProperties `xml:"properties,omitempty"`
	Species    []xmlSpecies   `xml:"species"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func toXMLProperties(p properties) *xmlProperties {
	if len(p) == 0 {
		return nil
	}
	out := &xmlProperties{}
	for _, k := range p.sortedKeys() {
		out.Items = append(out.Items, xmlProperty{Name: k, Value: p[k]})
	}
	return out
}

func (c *Collection) toXML() (*xmlCollection, error) {
	doc := &xmlCollection{Properties: toXMLProperties(c.props)}
	for _, s := range c.species {
		xs := xmlSpecies{Name: s.name, Properties: toXMLProperties(s.props)}
		for i, l := range s.levels {
			xs.Levels = append(xs.Levels, xmlLevel{
				Index:        i,
				Energy:       formatFloat(l.energy),
				Multiplicity: l.multiplicity,
				Properties:   toXMLProperties(l.props),
			})
		}
		for _, t := range s.transitions {
			from, to := s.IndexOf(t.upper), s.IndexOf(t.lower)
			if from < 0 || to < 0 {
				return nil, fmt.Errorf("species %s: dangling transition", s.name)
			}
			xs.Transitions = append(xs.Transitions, xmlTransition{
				From:       from,
				To:         to,
				EinsteinA:  formatFloat(t.rate),
				Properties: toXMLProperties(t.props),
			})
		}
		doc.Species = append(doc.Species, xs)
	}
	return doc, nil
}

// WriteXML writes the collection as an XML document.
func (c *Collection) WriteXML(w io.Writer) error {
	doc, err := c.toXML()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// WriteFile writes the collection to path, xz-compressed if path ends in ".xz".
func (c *Collection) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewIO("close", path, cerr)
		}
	}()

	buf := bufio.NewWriter(f)
	var w io.Writer = buf
	var xzw *xz.Writer
	if strings.HasSuffix(path, xzSuffix) {
		xzw, err = xzNewWriter(buf)
		if err != nil {
			return fmt.Errorf("failed to create xz writer: %w", err)
		}
		w = xzw
	}

	if err := c.WriteXML(w); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if xzw != nil {
		if err := xzw.Close(); err != nil {
			return fmt.Errorf("failed to finish xz stream: %w", err)
		}
	}
	if err := buf.Flush(); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// ReadDocument returns the XML bytes of a file written by WriteFile,
// decompressing it if path ends in ".xz".
func ReadDocument(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, xzSuffix) {
		xzr, err := xzNewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return data, nil
}

// ReadFile reads a collection written by WriteFile.
func ReadFile(path string) (*Collection, error) {
	data, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}

	c, err := ReadXML(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return c, nil
}

func readProperties(n *xmldoc.Node) (map[string]string, error) {
	items, err := n.XPath("properties/property")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.Attr("name")] = it.Text()
	}
	return out, nil
}

func childFloat(n *xmldoc.Node, name string) (float64, error) {
	child, err := n.XPathFirst(name)
	if err != nil {
		return 0, err
	}
	if child == nil {
		return 0, fmt.Errorf("missing <%s>", name)
	}
	return strconv.ParseFloat(strings.TrimSpace(child.Text()), 64)
}

func attrInt(n *xmldoc.Node, name string) (int, error) {
	v, err := strconv.Atoi(n.Attr(name))
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", name, err)
	}
	return v, nil
}

// ReadXML parses a collection document.
func ReadXML(r io.Reader) (*Collection, error) {
	doc, err := xmldoc.ParseReader(r)
	if err != nil {
		return nil, errors.NewParse("XML", "", err.Error())
	}
	root := doc.Root()
	if root == nil || root.Name() != "species_collection" {
		return nil, errors.NewParse("XML", "", "root element is not species_collection")
	}

	c := NewCollection()
	props, err := readProperties(root)
	if err != nil {
		return nil, err
	}
	if props != nil {
		c.UpdateProperties(props)
	}

	nodes, err := root.XPath("species")
	if err != nil {
		return nil, err
	}
	for _, sn := range nodes {
		s, err := readSpecies(sn)
		if err != nil {
			return nil, errors.Wrapf(err, "species %q", sn.Attr("name"))
		}
		c.Add(s)
	}
	return c, nil
}

func readSpecies(sn *xmldoc.Node) (*Species, error) {
	levelNodes, err := sn.XPath("levels/level")
	if err != nil {
		return nil, err
	}
	levels := make([]*Level, 0, len(levelNodes))
	for i, ln := range levelNodes {
		energy, err := childFloat(ln, "energy")
		if err != nil {
			return nil, fmt.Errorf("level %d energy: %w", i, err)
		}
		multNode, err := ln.XPathFirst("multiplicity")
		if err != nil || multNode == nil {
			return nil, fmt.Errorf("level %d: missing multiplicity", i)
		}
		mult, err := strconv.Atoi(strings.TrimSpace(multNode.Text()))
		if err != nil {
			return nil, fmt.Errorf("level %d multiplicity: %w", i, err)
		}
		l := NewLevel(energy, mult)
		props, err := readProperties(ln)
		if err != nil {
			return nil, err
		}
		if props != nil {
			l.UpdateProperties(props)
		}
		levels = append(levels, l)
	}

	s := NewSpecies(sn.Attr("name"), levels)
	props, err := readProperties(sn)
	if err != nil {
		return nil, err
	}
	if props != nil {
		s.UpdateProperties(props)
	}

	trNodes, err := sn.XPath("transitions/transition")
	if err != nil {
		return nil, err
	}
	for i, tn := range trNodes {
		from, err := attrInt(tn, "from")
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		to, err := attrInt(tn, "to")
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		if from < 0 || from >= len(levels) || to < 0 || to >= len(levels) {
			return nil, fmt.Errorf("transition %d: level index out of range (%d -> %d)", i, from, to)
		}
		rate, err := childFloat(tn, "a")
		if err != nil {
			return nil, fmt.Errorf("transition %d rate: %w", i, err)
		}
		t := NewTransition(levels[from], levels[to], rate)
		props, err := readProperties(tn)
		if err != nil {
			return nil, err
		}
		if props != nil {
			t.UpdateProperties(props)
		}
		if err := s.AddTransition(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}
