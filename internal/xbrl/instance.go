package xbrl

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/factsync/internal/fetcher"
)

type xmlMember struct {
	Dimension string `xml:"dimension,attr"`
	Value     string `xml:",chardata"`
	Inner     string `xml:",innerxml"`
}

type xmlContext struct {
	ID              string      `xml:"id,attr"`
	Identifier      string      `xml:"entity>identifier"`
	SegmentExplicit []xmlMember `xml:"entity>segment>explicitMember"`
	SegmentTyped    []xmlMember `xml:"entity>segment>typedMember"`
	ScenExplicit    []xmlMember `xml:"scenario>explicitMember"`
	ScenTyped       []xmlMember `xml:"scenario>typedMember"`
	Instant         string      `xml:"period>instant"`
	StartDate       string      `xml:"period>startDate"`
	EndDate         string      `xml:"period>endDate"`
}

func (c xmlContext) period() string {
	if p := strings.TrimSpace(c.Instant); p != "" {
		return p
	}
	if end := strings.TrimSpace(c.EndDate); end != "" {
		return durationPeriod(strings.TrimSpace(c.StartDate), end)
	}
	return ""
}

func (c xmlContext) axes() map[string]string {
	axes := map[string]string{}
	for _, group := range [][]xmlMember{c.SegmentExplicit, c.SegmentTyped, c.ScenExplicit, c.ScenTyped} {
		for _, m := range group {
			if m.Dimension == "" {
				continue
			}
			member := strings.TrimSpace(m.Value)
			if member == "" {
				member = strings.TrimSpace(m.Inner)
			}
			axes[m.Dimension] = member
		}
	}
	return axes
}

type xmlFact struct {
	concept    string
	contextRef string
	unitRef    string
	value      string
	isNil      bool
}

// ParseInstance parses an XBRL 2.1 XML instance. Facts may precede the
// contexts they reference, so contexts are joined after a full pass.
func ParseInstance(r io.Reader) (*Document, error) {
	dec := fetcher.NewXMLDecoder(r)
	doc := &Document{Format: FormatXML}
	contexts := map[string]xmlContext{}
	var facts []xmlFact
	rootSeen := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "xbrl: read instance token")
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !rootSeen {
			rootSeen = true
			for _, a := range se.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					doc.Namespaces = append(doc.Namespaces, a.Value)
				}
			}
			continue
		}

		switch se.Name.Local {
		case "context":
			var c xmlContext
			if err := dec.DecodeElement(&c, &se); err != nil {
				return nil, eris.Wrap(err, "xbrl: decode context")
			}
			contexts[c.ID] = c
			continue
		case "unit", "schemaRef", "linkbaseRef", "roleRef", "arcroleRef", "footnoteLink":
			if err := dec.Skip(); err != nil {
				return nil, eris.Wrapf(err, "xbrl: skip %s", se.Name.Local)
			}
			continue
		}

		contextRef := attrValue(se, "contextRef")
		if contextRef == "" {
			// Tuples hold facts; descend into them.
			continue
		}

		var body struct {
			Value string `xml:",chardata"`
		}
		if err := dec.DecodeElement(&body, &se); err != nil {
			return nil, eris.Wrapf(err, "xbrl: decode fact %s", se.Name.Local)
		}
		facts = append(facts, xmlFact{
			concept:    se.Name.Local,
			contextRef: contextRef,
			unitRef:    attrValue(se, "unitRef"),
			value:      strings.TrimSpace(body.Value),
			isNil:      attrValue(se, "nil") == "true",
		})
	}

	if !rootSeen {
		return nil, eris.New("xbrl: instance has no root element")
	}

	for _, f := range facts {
		dims := map[string]string{DimConcept: f.concept}
		if c, ok := contexts[f.contextRef]; ok {
			setIfPresent(dims, DimEntity, strings.TrimSpace(c.Identifier))
			setIfPresent(dims, DimPeriod, c.period())
			for axis, member := range c.axes() {
				dims[axis] = member
			}
		}
		setIfPresent(dims, DimUnit, f.unitRef)

		tf := TaggedFact{Dimensions: dims}
		if !f.isNil && f.unitRef != "" {
			if v, err := decimal.NewFromString(f.value); err == nil {
				tf.Value = &v
			}
		}
		doc.Facts = append(doc.Facts, tf)
	}
	return doc, nil
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
