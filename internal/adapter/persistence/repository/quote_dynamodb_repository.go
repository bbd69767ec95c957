package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultQuotesTableName = "quotes"
	quotesFolioIndex       = "folio-index"
)

// DynamoAPI is the subset of *dynamodb.Client the quote repository uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type quoteLineItem struct {
	Product   string `dynamodbav:"product"`
	Quantity  string `dynamodbav:"quantity"`
	UnitPrice string `dynamodbav:"unit_price"`
	Subtotal  string `dynamodbav:"subtotal"`
}

type statusHistoryItem struct {
	Status    string `dynamodbav:"status"`
	Timestamp string `dynamodbav:"timestamp"`
	UserID    string `dynamodbav:"user_id"`
	UserName  string `dynamodbav:"user_name"`
	Notes     string `dynamodbav:"notes"`
	Source    string `dynamodbav:"source,omitempty"`
}

type quoteItem struct {
	ID              string              `dynamodbav:"id"`
	Folio           string              `dynamodbav:"folio"`
	Status          string              `dynamodbav:"status"`
	Items           []quoteLineItem     `dynamodbav:"items"`
	Total           string              `dynamodbav:"total"`
	ValidityDays    *int                `dynamodbav:"validity_days,omitempty"`
	DeliveryDays    *int                `dynamodbav:"delivery_days,omitempty"`
	CreatedByUserID string              `dynamodbav:"created_by_user_id"`
	CreatedByName   string              `dynamodbav:"created_by_name"`
	CreatedByEmail  string              `dynamodbav:"created_by_email"`
	StatusHistory   []statusHistoryItem `dynamodbav:"status_history"`
	ViewedAt        string              `dynamodbav:"viewed_at,omitempty"`
	ApprovedAt      string              `dynamodbav:"approved_at,omitempty"`
	RejectedAt      string              `dynamodbav:"rejected_at,omitempty"`
	ExpiredAt       string              `dynamodbav:"expired_at,omitempty"`
	CreatedAt       string              `dynamodbav:"created_at"`
	UpdatedAt       string              `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists Quote documents in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI folio-index: PK folio (string), used by FolioExists
//
// Status changes are partial updates; the status history is appended with list_append.

type QuoteDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IQuoteStore = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb DynamoAPI) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUOTES_TABLE", defaultQuotesTableName),
	}
}

func (r *QuoteDynamoRepository) FolioExists(ctx context.Context, folio string) (bool, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(quotesFolioIndex),
		KeyConditionExpression: aws.String("#folio = :folio"),
		ExpressionAttributeNames: map[string]string{
			"#folio": "folio",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":folio": &types.AttributeValueMemberS{Value: folio},
		},
		Select: types.SelectCount,
		Limit:  aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return out.Count > 0, nil
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

// UpdateStatus returns the zero Quote when id does not exist.
func (r *QuoteDynamoRepository) UpdateStatus(ctx context.Context, id string, change entities.StatusChange) (entities.Quote, error) {
	entry, err := attributevalue.Marshal(toStatusHistoryItem(change.Entry))
	if err != nil {
		return entities.Quote{}, err
	}
	at := formatTime(change.At)

	sets := []string{
		"#status = :status",
		"#updated_at = :updated_at",
		"#status_history = list_append(if_not_exists(#status_history, :empty_list), :entry)",
	}
	values := map[string]types.AttributeValue{
		":status":     &types.AttributeValueMemberS{Value: string(change.Status)},
		":updated_at": &types.AttributeValueMemberS{Value: at},
		":entry":      &types.AttributeValueMemberL{Value: []types.AttributeValue{entry}},
		":empty_list": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
	}
	names := map[string]string{
		"#id":             "id",
		"#status":         "status",
		"#updated_at":     "updated_at",
		"#status_history": "status_history",
	}
	if stamp := entities.StampField(change.Status); stamp != "" {
		sets = append(sets, "#stamp = :stamp")
		values[":stamp"] = &types.AttributeValueMemberS{Value: at}
		names["#stamp"] = stamp
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  names,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Quote{}, nil
		}
		return entities.Quote{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Quote{}, nil
	}
	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func (r *QuoteDynamoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	return err
}

// List scans the table with the equality filters pushed down and sorts newest first.
func (r *QuoteDynamoRepository) List(ctx context.Context, filter entities.QuoteFilter) ([]entities.Quote, error) {
	input := &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	}
	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	if filter.Status != "" {
		conds = append(conds, "#status = :status")
		names["#status"] = "status"
		values[":status"] = &types.AttributeValueMemberS{Value: string(filter.Status)}
	}
	if filter.CreatedByUserID != "" {
		conds = append(conds, "#created_by = :created_by")
		names["#created_by"] = "created_by_user_id"
		values[":created_by"] = &types.AttributeValueMemberS{Value: filter.CreatedByUserID}
	}
	if len(conds) > 0 {
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	var quotes []entities.Quote
	p := dynamodb.NewScanPaginator(r.ddb, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []quoteItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			quotes = append(quotes, fromQuoteItem(it))
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})
	return quotes, nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	lines := make([]quoteLineItem, 0, len(q.Items))
	for _, l := range q.Items {
		lines = append(lines, quoteLineItem{
			Product:   l.Product,
			Quantity:  floatToString(l.Quantity),
			UnitPrice: floatToString(l.UnitPrice),
			Subtotal:  floatToString(l.Subtotal),
		})
	}
	history := make([]statusHistoryItem, 0, len(q.StatusHistory))
	for _, h := range q.StatusHistory {
		history = append(history, toStatusHistoryItem(h))
	}
	return quoteItem{
		ID:              q.ID,
		Folio:           q.Folio,
		Status:          string(q.Status),
		Items:           lines,
		Total:           floatToString(q.Total),
		ValidityDays:    q.Meta.ValidityDays,
		DeliveryDays:    q.Meta.DeliveryDays,
		CreatedByUserID: q.CreatedByUserID,
		CreatedByName:   q.CreatedByName,
		CreatedByEmail:  q.CreatedByEmail,
		StatusHistory:   history,
		ViewedAt:        formatOptionalTime(q.ViewedAt),
		ApprovedAt:      formatOptionalTime(q.ApprovedAt),
		RejectedAt:      formatOptionalTime(q.RejectedAt),
		ExpiredAt:       formatOptionalTime(q.ExpiredAt),
		CreatedAt:       formatTime(q.CreatedAt),
		UpdatedAt:       formatTime(q.UpdatedAt),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	status := entities.QuoteStatus(it.Status)
	if status == "" {
		status = entities.QuoteStatusDraft
	}
	lines := make([]entities.QuoteItem, 0, len(it.Items))
	for _, l := range it.Items {
		lines = append(lines, entities.QuoteItem{
			Product:   l.Product,
			Quantity:  parseFloat(l.Quantity),
			UnitPrice: parseFloat(l.UnitPrice),
			Subtotal:  parseFloat(l.Subtotal),
		})
	}
	history := make([]entities.StatusHistoryEntry, 0, len(it.StatusHistory))
	for _, h := range it.StatusHistory {
		ts, _ := time.Parse(time.RFC3339Nano, h.Timestamp)
		history = append(history, entities.StatusHistoryEntry{
			Status:    entities.QuoteStatus(h.Status),
			Timestamp: ts,
			UserID:    h.UserID,
			UserName:  h.UserName,
			Notes:     h.Notes,
			Source:    h.Source,
		})
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.Quote{
		ID:              it.ID,
		Folio:           it.Folio,
		Status:          status,
		Items:           lines,
		Total:           parseFloat(it.Total),
		Meta:            entities.QuoteMeta{ValidityDays: it.ValidityDays, DeliveryDays: it.DeliveryDays},
		CreatedByUserID: it.CreatedByUserID,
		CreatedByName:   it.CreatedByName,
		CreatedByEmail:  it.CreatedByEmail,
		StatusHistory:   history,
		ViewedAt:        parseOptionalTime(it.ViewedAt),
		ApprovedAt:      parseOptionalTime(it.ApprovedAt),
		RejectedAt:      parseOptionalTime(it.RejectedAt),
		ExpiredAt:       parseOptionalTime(it.ExpiredAt),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

func toStatusHistoryItem(h entities.StatusHistoryEntry) statusHistoryItem {
	return statusHistoryItem{
		Status:    string(h.Status),
		Timestamp: formatTime(h.Timestamp),
		UserID:    h.UserID,
		UserName:  h.UserName,
		Notes:     h.Notes,
		Source:    h.Source,
	}
}
