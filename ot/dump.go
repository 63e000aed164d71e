package ot

import (
	"encoding/xml"
	"strconv"
	"strings"
)

type xmlLookup struct {
	XMLName    xml.Name              `xml:"Lookup"`
	Index      int                   `xml:"index,attr"`
	LookupType LayoutTableLookupType `xml:"LookupType"`
	LookupFlag LayoutTableLookupFlag `xml:"LookupFlag"`
	Subtables  []*LookupNode         `xml:"Subtable"`
}

// DumpXML renders a lookup as an XML-like structural dump, one line per
// element. Element names mirror the field names of the binary table.
func DumpXML(lookup *LookupTable, index int) []string {
	if lookup == nil {
		return []string{"<Lookup/>"}
	}
	x := xmlLookup{
		Index:      index,
		LookupType: lookup.Type,
		LookupFlag: lookup.Flag,
		Subtables:  lookup.Subtables,
	}
	out, err := xml.MarshalIndent(x, "", "  ")
	if err != nil {
		tracer().Errorf("cannot dump lookup #%d: %v", index, err)
		return []string{"<Lookup index=\"" + strconv.Itoa(index) + "\"/>", "<!-- " + err.Error() + " -->"}
	}
	return strings.Split(string(out), "\n")
}
