package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fincontext/internal/logging"
	"github.com/dmitrijs2005/fincontext/internal/server/models"
)

// Indexer is the slice of the search client used by the ingest service.
type Indexer interface {
	BulkIndex(ctx context.Context, index string, docs []any) error
	IndexDocument(ctx context.Context, index string, doc any) error
}

// IngestService loads bank statements (CSV) and free-text policy documents
// into the search indexes, tagged with the owning username.
type IngestService struct {
	es                Indexer
	transactionsIndex string
	documentsIndex    string
	logger            logging.Logger
}

func NewIngestService(es Indexer, transactionsIndex, documentsIndex string, logger logging.Logger) *IngestService {
	return &IngestService{
		es:                es,
		transactionsIndex: transactionsIndex,
		documentsIndex:    documentsIndex,
		logger:            logger.With("module", "ingest_service"),
	}
}

// statement CSV header, in order
var csvHeader = []string{"Date", "Description", "Category", "Amount", "Type"}

const csvDateLayout = "2006-01-02"

// IngestTransactionsCSV parses a bank-statement CSV and bulk-indexes the
// rows for username. Returns the number of indexed transactions. The whole
// file is rejected on the first malformed row; partial statements are never
// indexed.
func (s *IngestService) IngestTransactionsCSV(ctx context.Context, username string, r io.Reader) (int, error) {

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return 0, err
	}

	var docs []any
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("read csv line %d: %w", line, err)
		}

		tx, err := parseTransaction(record)
		if err != nil {
			return 0, fmt.Errorf("csv line %d: %w", line, err)
		}
		tx.Username = username
		docs = append(docs, tx)
	}

	if err := s.es.BulkIndex(ctx, s.transactionsIndex, docs); err != nil {
		return 0, fmt.Errorf("bulk index transactions: %w", err)
	}

	s.logger.Info(ctx, "ingested transactions", "username", username, "count", len(docs))
	return len(docs), nil
}

// IngestPolicyDocument indexes one free-text document for username.
func (s *IngestService) IngestPolicyDocument(ctx context.Context, username, filename string, r io.Reader) error {

	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	doc := models.PolicyDocument{
		Text:     string(content),
		Filename: filename,
		Username: username,
		Metadata: models.DocumentMetadata{Type: models.DocumentTypeInsurancePolicy},
	}

	if err := s.es.IndexDocument(ctx, s.documentsIndex, doc); err != nil {
		return fmt.Errorf("index document: %w", err)
	}

	s.logger.Info(ctx, "ingested document", "username", username, "filename", filename)
	return nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return fmt.Errorf("unexpected csv header: %v", header)
	}
	for i, want := range csvHeader {
		if strings.TrimSpace(header[i]) != want {
			return fmt.Errorf("unexpected csv header: %v", header)
		}
	}
	return nil
}

func parseTransaction(record []string) (*models.Transaction, error) {
	if len(record) != len(csvHeader) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	date, err := time.Parse(csvDateLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", record[0])
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", record[3])
	}

	txType := strings.TrimSpace(record[4])
	if txType != models.TransactionDebit && txType != models.TransactionCredit {
		return nil, fmt.Errorf("invalid type %q", record[4])
	}

	return &models.Transaction{
		Date:        date,
		Description: strings.TrimSpace(record[1]),
		Category:    strings.TrimSpace(record[2]),
		Amount:      amount,
		Type:        txType,
	}, nil
}
