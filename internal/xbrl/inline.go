package xbrl

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

type inlineContext struct {
	entity string
	period string
	axes   map[string]string
}

// ParseInline parses an inline XBRL (iXBRL) HTML document.
func ParseInline(r io.Reader) (*Document, error) {
	html, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "xbrl: parse inline document")
	}

	doc := &Document{Format: FormatInline}
	html.Find("html").First().Each(func(_ int, s *goquery.Selection) {
		for _, a := range s.Nodes[0].Attr {
			if a.Key == "xmlns" || strings.HasPrefix(a.Key, "xmlns:") {
				doc.Namespaces = append(doc.Namespaces, a.Val)
			}
		}
	})

	contexts := map[string]inlineContext{}
	html.Find("*").Each(func(_ int, s *goquery.Selection) {
		if localNodeName(s) != "context" {
			return
		}
		id, _ := s.Attr("id")
		contexts[id] = readInlineContext(s)
	})

	html.Find("*").Each(func(_ int, s *goquery.Selection) {
		switch localNodeName(s) {
		case "nonfraction":
			doc.Facts = append(doc.Facts, readNonFraction(s, contexts))
		case "nonnumeric", "fraction":
			name, _ := s.Attr("name")
			doc.Facts = append(doc.Facts, TaggedFact{Dimensions: map[string]string{DimConcept: name}})
		}
	})

	return doc, nil
}

// localNodeName returns the lower-cased element name without its prefix.
// The HTML parser keeps prefixes as part of the tag name (ix:nonfraction).
func localNodeName(s *goquery.Selection) string {
	return LocalName(goquery.NodeName(s))
}

func readInlineContext(s *goquery.Selection) inlineContext {
	ctx := inlineContext{axes: map[string]string{}}
	var instant, start, end string
	s.Find("*").Each(func(_ int, c *goquery.Selection) {
		text := strings.TrimSpace(c.Text())
		switch localNodeName(c) {
		case "identifier":
			ctx.entity = text
		case "instant":
			instant = text
		case "startdate":
			start = text
		case "enddate":
			end = text
		case "explicitmember", "typedmember":
			if dim, ok := c.Attr("dimension"); ok {
				ctx.axes[dim] = text
			}
		}
	})
	if instant != "" {
		ctx.period = instant
	} else if end != "" {
		ctx.period = durationPeriod(start, end)
	}
	return ctx
}

func readNonFraction(s *goquery.Selection, contexts map[string]inlineContext) TaggedFact {
	name, _ := s.Attr("name")
	dims := map[string]string{DimConcept: name}

	contextRef, _ := s.Attr("contextref")
	if ctx, ok := contexts[contextRef]; ok {
		setIfPresent(dims, DimEntity, ctx.entity)
		setIfPresent(dims, DimPeriod, ctx.period)
		for axis, member := range ctx.axes {
			dims[axis] = member
		}
	}
	unitRef, _ := s.Attr("unitref")
	setIfPresent(dims, DimUnit, unitRef)

	fact := TaggedFact{Dimensions: dims}
	if nilAttr, _ := s.Attr("xsi:nil"); nilAttr == "true" {
		return fact
	}

	format, _ := s.Attr("format")
	scale, _ := s.Attr("scale")
	sign, _ := s.Attr("sign")
	if v, ok := InlineValue(s.Text(), format, scale, sign); ok {
		fact.Value = &v
	}
	return fact
}

func setIfPresent(dims map[string]string, key, value string) {
	if value != "" {
		dims[key] = value
	}
}

// zeroWords are the spelled-out zeros accepted by the numwordsen transform.
var zeroWords = map[string]bool{"no": true, "none": true, "nil": true, "zero": true}

// InlineValue converts the displayed text of an ix:nonFraction into its
// numeric value by applying the transformation format, the power-of-ten
// scale and the sign.
func InlineValue(text, format, scale, sign string) (decimal.Decimal, bool) {
	f := strings.ToLower(LocalName(format))
	text = strings.TrimSpace(text)

	var d decimal.Decimal
	switch {
	case strings.Contains(f, "zerodash") || strings.Contains(f, "fixed-zero") || strings.Contains(f, "fixedzero"):
		d = decimal.Zero
	case strings.Contains(f, "numwordsen") && zeroWords[strings.ToLower(text)]:
		d = decimal.Zero
	case text == "":
		return decimal.Decimal{}, false
	default:
		commaDecimal := strings.Contains(f, "commadecimal") || strings.Contains(f, "comma-decimal")
		var err error
		d, err = decimal.NewFromString(cleanNumber(text, commaDecimal))
		if err != nil {
			return decimal.Decimal{}, false
		}
	}

	if scale != "" {
		n, err := strconv.Atoi(strings.TrimSpace(scale))
		if err != nil {
			return decimal.Decimal{}, false
		}
		d = d.Shift(int32(n))
	}
	if strings.TrimSpace(sign) == "-" {
		d = d.Neg()
	}
	return d, true
}

// cleanNumber strips grouping separators and whitespace. With commaDecimal
// the comma is the decimal mark and dots or spaces group digits.
func cleanNumber(text string, commaDecimal bool) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
			if commaDecimal {
				b.WriteRune('.')
			}
		case r == '.':
			if !commaDecimal {
				b.WriteRune('.')
			}
		}
	}
	return b.String()
}
