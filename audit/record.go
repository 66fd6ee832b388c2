package audit

import (
	"sort"

	"github.com/clear-ness/view-counter/mlog"
)

const (
	Success = "success"
	Fail    = "fail"
)

type Meta map[string]interface{}

// Record describes the outcome of one request worth keeping a trace of.
type Record struct {
	APIPath   string
	Event     string
	Status    string
	Client    string
	IPAddress string
	Meta      Meta
}

func (rec *Record) Success() {
	rec.Status = Success
}

func (rec *Record) Fail() {
	rec.Status = Fail
}

func (rec *Record) AddMeta(name string, val interface{}) {
	if rec.Meta == nil {
		rec.Meta = Meta{}
	}

	rec.Meta[name] = val
}

// Fields flattens the record into log fields, meta keys sorted.
func (rec *Record) Fields() []mlog.Field {
	fields := []mlog.Field{
		mlog.String("event", rec.Event),
		mlog.String("status", rec.Status),
		mlog.String("api_path", rec.APIPath),
		mlog.String("client", rec.Client),
		mlog.String("ip_addr", rec.IPAddress),
	}

	names := make([]string, 0, len(rec.Meta))
	for name := range rec.Meta {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fields = append(fields, mlog.Any(name, rec.Meta[name]))
	}

	return fields
}
