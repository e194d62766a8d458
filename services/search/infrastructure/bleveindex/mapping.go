package bleveindex

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// buildIndexMapping creates the Bleve mapping for listing documents:
// stemmed full-text on title and description, exact keyword matching on
// category and tags, numerics for range queries.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	doc := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	doc.AddFieldMappingsAt("title", titleField)

	descField := bleve.NewTextFieldMapping()
	descField.Analyzer = en.AnalyzerName
	descField.Store = false
	doc.AddFieldMappingsAt("description", descField)

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = keyword.Name
	categoryField.Store = true
	doc.AddFieldMappingsAt("category", categoryField)

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = keyword.Name
	tagsField.Store = true
	doc.AddFieldMappingsAt("tags", tagsField)

	priceField := bleve.NewNumericFieldMapping()
	doc.AddFieldMappingsAt("price_cents", priceField)

	createdField := bleve.NewNumericFieldMapping()
	doc.AddFieldMappingsAt("created_at", createdField)

	indexMapping.DefaultMapping = doc
	return indexMapping
}

// buildQuery matches the user's text against title (boosted), description,
// category, and tags, with a fuzzy clause on title for typo tolerance and
// a prefix clause for partial words.
func buildQuery(text string) query.Query {
	clauses := []query.Query{}

	titleMatch := bleve.NewMatchQuery(text)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)
	clauses = append(clauses, titleMatch)

	descMatch := bleve.NewMatchQuery(text)
	descMatch.SetField("description")
	clauses = append(clauses, descMatch)

	categoryTerm := bleve.NewTermQuery(strings.ToLower(text))
	categoryTerm.SetField("category")
	categoryTerm.SetBoost(1.5)
	clauses = append(clauses, categoryTerm)

	tagTerm := bleve.NewTermQuery(strings.ToLower(text))
	tagTerm.SetField("tags")
	tagTerm.SetBoost(2.0)
	clauses = append(clauses, tagTerm)

	fuzzy := bleve.NewFuzzyQuery(text)
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("title")
	fuzzy.SetBoost(0.8)
	clauses = append(clauses, fuzzy)

	if len(text) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(text))
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		clauses = append(clauses, prefix)
	}

	return bleve.NewDisjunctionQuery(clauses...)
}
