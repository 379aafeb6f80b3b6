package api

import (
	"net/url"
	"strconv"
	"time"

	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// params builds a query string. The optional adders skip absent values so
// they never reach the wire as empty parameters.
type params url.Values

func newParams() params {
	return params{}
}

func (p params) set(name, value string) params {
	url.Values(p).Set(name, value)
	return p
}

func (p params) setOptional(name, value string) params {
	if value != "" {
		p.set(name, value)
	}
	return p
}

func (p params) setDate(name string, t time.Time) params {
	if !t.IsZero() {
		p.set(name, models.FormatDate(t))
	}
	return p
}

func (p params) setFloat(name string, f float64) params {
	return p.set(name, strconv.FormatFloat(f, 'f', -1, 64))
}

func (p params) setBool(name string, b bool) params {
	return p.set(name, strconv.FormatBool(b))
}

func (p params) values() url.Values {
	return url.Values(p)
}
