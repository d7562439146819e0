package models

import "time"

// TimeLayout - формат createdAt в ответах API (UTC, секундная точность).
const TimeLayout = "2006-01-02T15:04:05Z"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type TenderView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Status      TenderStatus `json:"status"`
	ServiceType ServiceType  `json:"serviceType"`
	Version     int          `json:"version"`
	CreatedAt   string       `json:"createdAt"`
}

func (t Tender) View() TenderView {
	return TenderView{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		ServiceType: t.ServiceType,
		Version:     t.Version,
		CreatedAt:   FormatTime(t.CreatedAt),
	}
}

func TenderViews(ts []Tender) []TenderView {
	out := make([]TenderView, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.View())
	}
	return out
}

type BidView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     BidStatus  `json:"status"`
	AuthorType AuthorType `json:"authorType"`
	AuthorID   string     `json:"authorId"`
	Version    int        `json:"version"`
	CreatedAt  string     `json:"createdAt"`
}

func (b Bid) View() BidView {
	return BidView{
		ID:         b.ID.String(),
		Name:       b.Name,
		Status:     b.Status,
		AuthorType: b.AuthorType,
		AuthorID:   b.AuthorID.String(),
		Version:    b.Version,
		CreatedAt:  FormatTime(b.CreatedAt),
	}
}

func BidViews(bs []Bid) []BidView {
	out := make([]BidView, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.View())
	}
	return out
}

type ReviewView struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

func (r Review) View() ReviewView {
	return ReviewView{
		ID:          r.ID.String(),
		Description: r.Description,
		CreatedAt:   FormatTime(r.CreatedAt),
	}
}

func ReviewViews(rs []Review) []ReviewView {
	out := make([]ReviewView, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.View())
	}
	return out
}
