package internal

import (
	esv7 "github.com/elastic/go-elasticsearch/v7"

	"github.com/taskboard/taskboard-api/internal"
	"github.com/taskboard/taskboard-api/internal/envvar"
)

// NewElasticSearch instantiates the ElasticSearch client using configuration
// defined in environment variables.
func NewElasticSearch(conf *envvar.Configuration) (*esv7.Client, error) {
	addr, err := conf.Get("ELASTICSEARCH_URL")
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get ELASTICSEARCH_URL")
	}

	config := esv7.Config{}
	if addr != "" {
		config.Addresses = []string{addr}
	}

	es, err := esv7.NewClient(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "esv7.NewClient")
	}

	res, err := es.Info()
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "es.Info")
	}
	defer res.Body.Close()

	return es, nil
}
