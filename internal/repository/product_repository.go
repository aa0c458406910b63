package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/shopspring/decimal"
)

const productKey = "product_id"

// DynamoAPI is the part of the DynamoDB client the product repository uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type DynamoProductRepository struct {
	client    DynamoAPI
	tableName string
}

// LoadAWSConfig resolves the shared AWS configuration. A non-empty endpoint
// means a local emulator, which gets static placeholder credentials.
func LoadAWSConfig(ctx context.Context, region, endpoint string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if endpoint != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

func NewDynamoDBClient(awsCfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func NewDynamoProductRepository(client DynamoAPI, tableName string) *DynamoProductRepository {
	return &DynamoProductRepository{
		client:    client,
		tableName: tableName,
	}
}

// ListProducts scans the whole table and orders the result by creation time.
func (r *DynamoProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})

	products := make([]domain.Product, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		var items []productItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products: %w", err)
		}
		for _, item := range items {
			products = append(products, item.toDomain())
		}
	}

	slices.SortStableFunc(products, func(a, b domain.Product) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return products, nil
}

func (r *DynamoProductRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            keyOf(productID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if result.Item == nil {
		return nil, ErrProductNotFound
	}

	var item productItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	product := item.toDomain()
	return &product, nil
}

// CreateProduct refuses to overwrite an existing id.
func (r *DynamoProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	err := r.put(ctx, product, expression.AttributeNotExists(expression.Name(productKey)))
	if isConditionFailed(err) {
		return ErrProductExists
	}
	return err
}

// UpdateProduct replaces the stored record; the id must already exist.
func (r *DynamoProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	err := r.put(ctx, product, expression.AttributeExists(expression.Name(productKey)))
	if isConditionFailed(err) {
		return ErrProductNotFound
	}
	return err
}

func (r *DynamoProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(productKey))).
		Build()
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      keyOf(productID),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (r *DynamoProductRepository) put(ctx context.Context, product *domain.Product, condition expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(fromDomain(*product))
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return err
		}
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func keyOf(productID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		productKey: &types.AttributeValueMemberS{Value: productID},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// amount stores a decimal as a DynamoDB number without float rounding.
type amount struct {
	decimal.Decimal
}

func (a amount) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: a.String()}, nil
}

func (a *amount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("expected number attribute, got %T", av)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}

type dimensionsItem struct {
	Length float64 `dynamodbav:"length"`
	Width  float64 `dynamodbav:"width"`
	Height float64 `dynamodbav:"height"`
	Unit   string  `dynamodbav:"unit"`
}

type compatibilityItem struct {
	Make   string `dynamodbav:"make"`
	Model  string `dynamodbav:"model"`
	Year   string `dynamodbav:"year"`
	Engine string `dynamodbav:"engine,omitempty"`
}

type specificationItem struct {
	Name  string `dynamodbav:"name"`
	Value string `dynamodbav:"value"`
	Unit  string `dynamodbav:"unit,omitempty"`
}

type productItem struct {
	ProductID         string              `dynamodbav:"product_id"`
	Name              string              `dynamodbav:"name"`
	Description       string              `dynamodbav:"description"`
	Category          string              `dynamodbav:"category"`
	Brand             string              `dynamodbav:"brand,omitempty"`
	Image             string              `dynamodbav:"image,omitempty"`
	Popular           bool                `dynamodbav:"popular"`
	Available         bool                `dynamodbav:"available"`
	Voltage           int                 `dynamodbav:"voltage"`
	Capacity          float64             `dynamodbav:"capacity"`
	CCA               int                 `dynamodbav:"cca"`
	Dimensions        dimensionsItem      `dynamodbav:"dimensions"`
	Weight            float64             `dynamodbav:"weight"`
	TerminalType      string              `dynamodbav:"terminal_type"`
	BatteryType       string              `dynamodbav:"battery_type"`
	Compatibilities   []compatibilityItem `dynamodbav:"compatibilities"`
	Specifications    []specificationItem `dynamodbav:"specifications,omitempty"`
	BasePrice         amount              `dynamodbav:"base_price"`
	DiscountPrice     *amount             `dynamodbav:"discount_price,omitempty"`
	DiscountActive    bool                `dynamodbav:"discount_active"`
	DiscountStartDate *time.Time          `dynamodbav:"discount_start_date,omitempty"`
	DiscountEndDate   *time.Time          `dynamodbav:"discount_end_date,omitempty"`
	Warranty          int                 `dynamodbav:"warranty"`
	FreeShipping      bool                `dynamodbav:"free_shipping"`
	InStock           bool                `dynamodbav:"in_stock"`
	StockQuantity     int                 `dynamodbav:"stock_quantity"`
	Rating            float64             `dynamodbav:"rating"`
	DeliveryAreas     []string            `dynamodbav:"delivery_areas,omitempty"`
	CreatedAt         time.Time           `dynamodbav:"created_at"`
	UpdatedAt         time.Time           `dynamodbav:"updated_at"`
}

func fromDomain(p domain.Product) productItem {
	item := productItem{
		ProductID:         p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Brand:             p.Brand,
		Image:             p.Image,
		Popular:           p.Popular,
		Available:         p.Available,
		Voltage:           p.Voltage,
		Capacity:          p.Capacity,
		CCA:               p.CCA,
		Dimensions:        dimensionsItem(p.Dimensions),
		Weight:            p.Weight,
		TerminalType:      p.TerminalType,
		BatteryType:       p.BatteryType,
		BasePrice:         amount{p.BasePrice},
		DiscountActive:    p.DiscountActive,
		DiscountStartDate: p.DiscountStartDate,
		DiscountEndDate:   p.DiscountEndDate,
		Warranty:          p.Warranty,
		FreeShipping:      p.FreeShipping,
		InStock:           p.InStock,
		StockQuantity:     p.StockQuantity,
		Rating:            p.Rating,
		DeliveryAreas:     p.DeliveryAreas,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.DiscountPrice != nil {
		item.DiscountPrice = &amount{*p.DiscountPrice}
	}
	item.Compatibilities = make([]compatibilityItem, 0, len(p.Compatibilities))
	for _, c := range p.Compatibilities {
		item.Compatibilities = append(item.Compatibilities, compatibilityItem(c))
	}
	for _, s := range p.Specifications {
		item.Specifications = append(item.Specifications, specificationItem(s))
	}
	return item
}

func (item productItem) toDomain() domain.Product {
	p := domain.Product{
		ID:           item.ProductID,
		Name:         item.Name,
		Description:  item.Description,
		Category:     item.Category,
		Brand:        item.Brand,
		Image:        item.Image,
		Popular:      item.Popular,
		Available:    item.Available,
		Voltage:      item.Voltage,
		Capacity:     item.Capacity,
		CCA:          item.CCA,
		Dimensions:   domain.Dimensions(item.Dimensions),
		Weight:       item.Weight,
		TerminalType: item.TerminalType,
		BatteryType:  item.BatteryType,
		BasePrice:    item.BasePrice.Decimal,
		Discount: domain.Discount{
			DiscountActive:    item.DiscountActive,
			DiscountStartDate: item.DiscountStartDate,
			DiscountEndDate:   item.DiscountEndDate,
		},
		Warranty:      item.Warranty,
		FreeShipping:  item.FreeShipping,
		InStock:       item.InStock,
		StockQuantity: item.StockQuantity,
		Rating:        item.Rating,
		DeliveryAreas: item.DeliveryAreas,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if item.DiscountPrice != nil {
		price := item.DiscountPrice.Decimal
		p.DiscountPrice = &price
	}
	p.Compatibilities = make([]domain.Compatibility, 0, len(item.Compatibilities))
	for _, c := range item.Compatibilities {
		p.Compatibilities = append(p.Compatibilities, domain.Compatibility(c))
	}
	for _, s := range item.Specifications {
		p.Specifications = append(p.Specifications, domain.Specification(s))
	}
	return p
}
