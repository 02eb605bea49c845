package quotation

import (
	"fmt"
	"math"
	"strings"

	"backoffice/internal/domain"
)

// MaxTabsPerSection caps how many tabs a single section may hold.
const MaxTabsPerSection = 5

// BuilderItem is one editable line inside a builder tab.
type BuilderItem struct {
	ID        string  `json:"id"`
	ConceptID *int64  `json:"concept_id,omitempty"`
	Title     string  `json:"title"`
	Format    string  `json:"format,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	IsCustom  bool    `json:"is_custom"`
}

// Total is the line amount at the current quantity and price.
func (it BuilderItem) Total() float64 {
	return round2(float64(it.Quantity) * it.UnitPrice)
}

// BuilderTab is a named group of items while the quotation is being
// assembled. Its ID is a temporary string, nothing is persisted yet.
type BuilderTab struct {
	ID    string        `json:"id"`
	Label string        `json:"label"`
	Items []BuilderItem `json:"items"`
}

// BuilderLink couples two tabs of different sections.
type BuilderLink struct {
	SourceTabID string `json:"source_tab_id"`
	TargetTabID string `json:"target_tab_id"`
}

// Builder holds the whole assembly state of one quotation before submit.
// All mutations are local; Payload() serializes everything for the single
// create call. Invalid mutations are ignored silently, mirroring how the
// form behaves.
type Builder struct {
	tabs   map[domain.Section][]*BuilderTab
	active map[domain.Section]int
	links  []BuilderLink
	seq    int
}

// NewBuilder starts every section with exactly one tab labeled "General".
func NewBuilder() *Builder {
	b := &Builder{
		tabs:   make(map[domain.Section][]*BuilderTab),
		active: make(map[domain.Section]int),
	}
	for _, s := range domain.Sections {
		b.tabs[s] = []*BuilderTab{{ID: b.nextID("tab"), Label: "General"}}
		b.active[s] = 0
	}
	return b
}

func (b *Builder) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%d", prefix, b.seq)
}

// Tabs returns the tabs of a section in order.
func (b *Builder) Tabs(section domain.Section) []*BuilderTab {
	return b.tabs[section]
}

// ActiveTab returns the currently selected tab of a section.
func (b *Builder) ActiveTab(section domain.Section) *BuilderTab {
	tabs := b.tabs[section]
	if len(tabs) == 0 {
		return nil
	}
	idx := b.active[section]
	if idx >= len(tabs) {
		idx = 0
	}
	return tabs[idx]
}

// SetActiveTab selects a tab by index; out-of-range values are ignored.
func (b *Builder) SetActiveTab(section domain.Section, idx int) {
	if idx >= 0 && idx < len(b.tabs[section]) {
		b.active[section] = idx
	}
}

// AddTab appends a tab and makes it active. Empty labels and sections at
// the cap are rejected.
func (b *Builder) AddTab(section domain.Section, label string) (string, bool) {
	label = strings.TrimSpace(label)
	if !section.Valid() || label == "" {
		return "", false
	}
	if len(b.tabs[section]) >= MaxTabsPerSection {
		return "", false
	}
	tab := &BuilderTab{ID: b.nextID("tab"), Label: label}
	b.tabs[section] = append(b.tabs[section], tab)
	b.active[section] = len(b.tabs[section]) - 1
	return tab.ID, true
}

// RemoveTab deletes a tab and its links. The last tab of a section is
// never removed.
func (b *Builder) RemoveTab(section domain.Section, tabID string) bool {
	tabs := b.tabs[section]
	if len(tabs) <= 1 {
		return false
	}
	idx := -1
	for i, t := range tabs {
		if t.ID == tabID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	b.tabs[section] = append(tabs[:idx], tabs[idx+1:]...)

	// Drop links touching the removed tab.
	kept := b.links[:0]
	for _, l := range b.links {
		if l.SourceTabID != tabID && l.TargetTabID != tabID {
			kept = append(kept, l)
		}
	}
	b.links = kept

	if b.active[section] == idx || b.active[section] >= len(b.tabs[section]) {
		b.active[section] = 0
	}
	return true
}

// RenameTab ignores blank labels.
func (b *Builder) RenameTab(section domain.Section, tabID, label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	for _, t := range b.tabs[section] {
		if t.ID == tabID {
			t.Label = label
			return true
		}
	}
	return false
}

// AddItem places an item on the active tab of its section. A catalog item
// already present on that tab (same concept, non-custom) has its quantity
// bumped by one instead of creating a second row; custom items never merge.
func (b *Builder) AddItem(section domain.Section, item BuilderItem) bool {
	tab := b.ActiveTab(section)
	if tab == nil {
		return false
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if !item.IsCustom && item.ConceptID != nil {
		for i := range tab.Items {
			existing := &tab.Items[i]
			if !existing.IsCustom && existing.ConceptID != nil && *existing.ConceptID == *item.ConceptID {
				existing.Quantity++
				return true
			}
		}
	}

	item.ID = b.nextID("item")
	tab.Items = append(tab.Items, item)
	return true
}

func (b *Builder) RemoveItem(section domain.Section, tabID, itemID string) bool {
	for _, t := range b.tabs[section] {
		if t.ID != tabID {
			continue
		}
		for i, it := range t.Items {
			if it.ID == itemID {
				t.Items = append(t.Items[:i], t.Items[i+1:]...)
				return true
			}
		}
	}
	return false
}

// SetQuantity ignores values below 1.
func (b *Builder) SetQuantity(section domain.Section, tabID, itemID string, qty int) bool {
	if qty < 1 {
		return false
	}
	if it := b.findItem(section, tabID, itemID); it != nil {
		it.Quantity = qty
		return true
	}
	return false
}

// SetUnitPrice ignores negative prices.
func (b *Builder) SetUnitPrice(section domain.Section, tabID, itemID string, price float64) bool {
	if price < 0 {
		return false
	}
	if it := b.findItem(section, tabID, itemID); it != nil {
		it.UnitPrice = price
		return true
	}
	return false
}

func (b *Builder) findItem(section domain.Section, tabID, itemID string) *BuilderItem {
	for _, t := range b.tabs[section] {
		if t.ID != tabID {
			continue
		}
		for i := range t.Items {
			if t.Items[i].ID == itemID {
				return &t.Items[i]
			}
		}
	}
	return nil
}

// LinkTabs couples two tabs for the public view. Both tabs must exist, in
// different sections; duplicate pairs are filtered silently.
func (b *Builder) LinkTabs(sourceID, targetID string) bool {
	srcSection, srcOK := b.sectionOf(sourceID)
	tgtSection, tgtOK := b.sectionOf(targetID)
	if !srcOK || !tgtOK || srcSection == tgtSection {
		return false
	}
	for _, l := range b.links {
		if l.SourceTabID == sourceID && l.TargetTabID == targetID {
			return false
		}
	}
	b.links = append(b.links, BuilderLink{SourceTabID: sourceID, TargetTabID: targetID})
	return true
}

func (b *Builder) Links() []BuilderLink {
	return b.links
}

func (b *Builder) sectionOf(tabID string) (domain.Section, bool) {
	for _, s := range domain.Sections {
		for _, t := range b.tabs[s] {
			if t.ID == tabID {
				return s, true
			}
		}
	}
	return "", false
}

// Totals is the reactive money summary of the builder.
type Totals struct {
	PerSection map[domain.Section]float64 `json:"per_section"`
	Subtotal   float64                    `json:"subtotal"`
	Tax        float64                    `json:"tax"`
	Total      float64                    `json:"total"`
}

// Totals recomputes everything from scratch on each call.
func (b *Builder) Totals() Totals {
	t := Totals{PerSection: make(map[domain.Section]float64)}
	for _, s := range domain.Sections {
		var sum float64
		for _, tab := range b.tabs[s] {
			for _, it := range tab.Items {
				sum += it.Total()
			}
		}
		t.PerSection[s] = round2(sum)
		t.Subtotal += sum
	}
	t.Subtotal = round2(t.Subtotal)
	t.Tax = round2(t.Subtotal * domain.VATRate)
	t.Total = round2(t.Subtotal + t.Tax)
	return t
}

// Payload serializes the full builder state for one atomic create call.
// Tabs keep their temp IDs; items and links refer to them.
func (b *Builder) Payload(title string, clientID int64) CreateQuotationRequest {
	totals := b.Totals()
	req := CreateQuotationRequest{
		Title:       title,
		ClientID:    clientID,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		Total:       totals.Total,
		PaymentType: domain.PaymentOneTime,
	}

	for _, s := range domain.Sections {
		for pos, tab := range b.tabs[s] {
			req.Tabs = append(req.Tabs, TabPayload{
				TempID:   tab.ID,
				Section:  s,
				Label:    tab.Label,
				Position: pos,
			})
			for _, it := range tab.Items {
				req.Items = append(req.Items, ItemPayload{
					TempTabID:    tab.ID,
					ConceptID:    it.ConceptID,
					Section:      s,
					Quantity:     it.Quantity,
					UnitPrice:    it.UnitPrice,
					CustomTitle:  it.Title,
					CustomFormat: it.Format,
					IsCustom:     it.IsCustom,
				})
			}
		}
	}
	for _, l := range b.links {
		req.Links = append(req.Links, LinkPayload{
			SourceTempID: l.SourceTabID,
			TargetTempID: l.TargetTabID,
		})
	}
	return req
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
