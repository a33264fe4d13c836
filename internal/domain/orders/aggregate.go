package orders

import (
	"sort"

	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/payments"
)

// Aggregate folds selection records into orders for one photographer.
//
// Records whose album or client does not resolve, or whose album belongs to
// someone else, are dropped without failing the whole aggregation. Status is
// looked up in the ledger by exact key and defaults to pending. The result is
// sorted by LatestDate, newest first; ties keep input order.
func Aggregate(photographerID uint, records []Record, ledger []payments.PaymentStatus) []Order {
	statuses := make(map[Key]payments.Status, len(ledger))
	for _, row := range ledger {
		statuses[Key{AlbumID: row.AlbumID, ClientID: row.ClientID}] = row.Status
	}

	index := map[Key]int{}
	out := []Order{}

	for _, r := range records {
		if r.Album == nil || r.Client == nil {
			continue
		}
		if !r.Album.OwnedBy(photographerID) {
			continue
		}

		key := Key{AlbumID: r.AlbumID, ClientID: r.ClientID}
		i, seen := index[key]
		if !seen {
			out = append(out, Order{
				Key:        key,
				AlbumName:  r.Album.Name,
				Client:     *r.Client,
				UnitPrice:  r.Album.PricePerPhoto,
				LatestDate: r.CreatedAt,
				Photos:     []albums.Photo{},
			})
			i = len(out) - 1
			index[key] = i
		}

		o := &out[i]
		o.PhotoCount++
		if r.CreatedAt.After(o.LatestDate) {
			o.LatestDate = r.CreatedAt
		}
		if r.Photo != nil {
			o.Photos = append(o.Photos, *r.Photo)
		}
	}

	for i := range out {
		o := &out[i]
		o.Total = int64(o.PhotoCount) * o.UnitPrice
		o.Status = statuses[o.Key].OrPending()
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].LatestDate.After(out[b].LatestDate)
	})
	return out
}

// Summary is the dashboard header line.
type Summary struct {
	Orders      int   `json:"orders"`
	Photos      int   `json:"photos"`
	PaidTotal   int64 `json:"paid_total"`
	UnpaidTotal int64 `json:"unpaid_total"`
}

// Summarize totals orders by status. Cancelled orders count towards neither
// total.
func Summarize(list []Order) Summary {
	var s Summary
	for _, o := range list {
		s.Orders++
		s.Photos += o.PhotoCount
		switch o.Status {
		case payments.StatusPaid:
			s.PaidTotal += o.Total
		case payments.StatusPending:
			s.UnpaidTotal += o.Total
		}
	}
	return s
}
