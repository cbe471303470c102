// test/e2e/pipeline_test.go
package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	awsclient "mandi-workers/internal/common/aws"
	"mandi-workers/internal/common/config"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/mandi"
	"mandi-workers/internal/models"
	"mandi-workers/pkg/registry"

	loadmandisnapshot "mandi-workers/internal/workers/data-access/load-mandi-snapshot"
	calculatemandimetrics "mandi-workers/internal/workers/mandi/calculate-mandi-metrics"
	qualifymandis "mandi-workers/internal/workers/mandi/qualify-mandis"
	rankmandis "mandi-workers/internal/workers/mandi/rank-mandis"
	validatepurchaserequest "mandi-workers/internal/workers/mandi/validate-purchase-request"
	createmandiorder "mandi-workers/internal/workers/order/create-mandi-order"
	managemandinotifications "mandi-workers/internal/workers/order/manage-mandi-notifications"
	sendordernotification "mandi-workers/internal/workers/order/send-order-notification"
)

const (
	catalogPath  = "../../configs/seed/scenarios.yaml"
	registryPath = "../../configs/activity-registry.json"
)

// processVars mimics Zeebe variable propagation: every job output is merged
// into one flat scope and every job input is read back out of it.
type processVars map[string]json.RawMessage

func (v processVars) merge(t *testing.T, output interface{}) {
	t.Helper()
	data, err := json.Marshal(output)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	for k, raw := range fields {
		v[k] = raw
	}
}

func (v processVars) set(t *testing.T, key string, value interface{}) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	v[key] = data
}

func (v processVars) into(t *testing.T, input interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, input))
}

type fakeSES struct{ subjects []string }

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.subjects = append(f.subjects, aws.ToString(params.Message.Subject.Data))
	return &ses.SendEmailOutput{MessageId: aws.String("ses-e2e")}, nil
}

type fakeSNS struct{ messages []string }

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.messages = append(f.messages, aws.ToString(params.Message))
	return &sns.PublishOutput{MessageId: aws.String("sns-e2e")}, nil
}

func testAppConfig() *config.Config {
	cfg := &config.Config{
		Mandi: config.MandiConfig{
			DefaultMode:      "balanced",
			MaxItems:         50,
			SnapshotCacheTTL: 300,
			ListingsIndex:    "mandi_listings",
		},
	}
	cfg.Notifications.Email.Enabled = true
	cfg.Notifications.SMS.Enabled = true
	cfg.Notifications.SMS.UrgentWithinHours = 6
	cfg.Integrations.AWS.SES.Enabled = true
	cfg.Integrations.AWS.SNS.Enabled = true
	return cfg
}

// TestPurchasePipeline runs every job of the mandi purchase process in order,
// handing variables between them as JSON the way the engine does.
func TestPurchasePipeline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log := logger.NewTestLogger(t)
	appCfg := testAppConfig()

	catalog, err := mandi.LoadCatalog(catalogPath)
	require.NoError(t, err)
	reg, err := registry.LoadRegistry(registryPath)
	require.NoError(t, err)

	vars := processVars{}
	vars.set(t, "requestId", "req-e2e-001")
	vars.set(t, "retailerId", "retailer-001")
	vars.set(t, "retailerName", "Fresh Mart")
	vars.set(t, "productName", "Tomatoes")
	vars.set(t, "requiredQuantity", 200)
	vars.set(t, "scenario", "scenario1")
	vars.set(t, "deliveryTimeHours", 4)

	// 1. validate-purchase-request
	vprCfg, err := validatepurchaserequest.LoadConfig(appCfg, reg, catalog.Retailer)
	require.NoError(t, err)
	var vprIn validatepurchaserequest.Input
	vars.into(t, &vprIn)
	validated, err := validatepurchaserequest.NewHandler(vprCfg, log).Execute(ctx, &vprIn)
	require.NoError(t, err)
	assert.True(t, validated.IsValid)
	assert.Equal(t, 45.0, validated.ResalePrice)
	assert.Equal(t, mandi.ModeBalanced, validated.Mode)
	vars.merge(t, validated)

	// 2. load-mandi-snapshot
	var snapIn loadmandisnapshot.Input
	vars.into(t, &snapIn)
	snapshot, err := loadmandisnapshot.NewHandler(loadmandisnapshot.LoadConfig(appCfg, catalog), nil, nil, log).
		Execute(ctx, &snapIn)
	require.NoError(t, err)
	assert.Equal(t, loadmandisnapshot.SourceSeed, snapshot.Source)
	assert.Equal(t, 6, snapshot.MandiCount)
	vars.merge(t, snapshot)

	// 3. qualify-mandis
	var qualIn qualifymandis.Input
	vars.into(t, &qualIn)
	qualified, err := qualifymandis.NewHandler(qualifymandis.LoadConfig(appCfg), log).Execute(ctx, &qualIn)
	require.NoError(t, err)
	assert.Equal(t, 6, qualified.TotalMandis)
	assert.Equal(t, 6, qualified.QualifiedCount)
	vars.merge(t, qualified)

	// 4. calculate-mandi-metrics
	var calcIn calculatemandimetrics.Input
	vars.into(t, &calcIn)
	metrics, err := calculatemandimetrics.NewHandler(calculatemandimetrics.LoadConfig(appCfg), log).Execute(ctx, &calcIn)
	require.NoError(t, err)
	require.Len(t, metrics.MandiMetrics, 6)
	for _, m := range metrics.MandiMetrics {
		assert.InDelta(t, m.PricePerKg*200, m.TotalCost, 0.001)
		assert.InDelta(t, 45.0*200-m.TotalCost, m.Profit, 0.001)
	}
	vars.merge(t, metrics)

	// 5. rank-mandis
	var rankIn rankmandis.Input
	vars.into(t, &rankIn)
	ranked, err := rankmandis.NewHandler(rankmandis.LoadConfig(appCfg), log).Execute(ctx, &rankIn)
	require.NoError(t, err)
	require.Len(t, ranked.RankedMandis, 6)
	assert.Equal(t, mandi.ModeBalanced, ranked.Mode)
	best := ranked.RankedMandis[0]
	assert.Equal(t, best.ID, ranked.BestMandiID)

	// The same request through the library gives the same order.
	direct := mandi.Recommend(snapshot.Mandis, mandi.PurchaseRequest{
		ProductName:      "Tomatoes",
		RequiredQuantity: 200,
		ResalePrice:      45,
		Requester:        catalog.Retailer.Point(),
		Mode:             mandi.ModeBalanced,
	})
	require.Len(t, direct, 6)
	for i := range direct {
		assert.Equal(t, direct[i].ID, ranked.RankedMandis[i].ID)
	}
	vars.merge(t, ranked)

	// The retailer picks the top recommendation.
	vars.set(t, "selectedMandi", best)

	// 6. create-mandi-order
	orderDB, orderMock, err := sqlmock.New()
	require.NoError(t, err)
	defer orderDB.Close()

	orderMock.ExpectQuery(`SELECT EXISTS`).WithArgs("req-e2e-001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	orderMock.ExpectBegin()
	orderMock.ExpectExec(`INSERT INTO mandi_orders`).WillReturnResult(sqlmock.NewResult(1, 1))
	orderMock.ExpectExec(`INSERT INTO mandi_notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
	orderMock.ExpectCommit()
	orderMock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	var orderIn createmandiorder.Input
	vars.into(t, &orderIn)
	order, err := createmandiorder.NewHandler(createmandiorder.LoadConfig(appCfg), orderDB, log).Execute(ctx, &orderIn)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.OrderStatus)
	assert.Equal(t, best.ID, order.Order.Mandi.ID)
	assert.Equal(t, 200.0, order.Order.Quantity)
	assert.InDelta(t, best.TotalCost, order.Order.TotalCost, 0.001)
	assert.Equal(t, 4, order.Order.DeliveryTimeHours)
	assert.NoError(t, orderMock.ExpectationsWereMet())
	vars.merge(t, order)

	// 7. send-order-notification
	notifyDB, notifyMock, err := sqlmock.New()
	require.NoError(t, err)
	defer notifyDB.Close()

	notifyMock.ExpectQuery(`SELECT name, email, phone FROM retailers`).WithArgs("retailer-001").
		WillReturnRows(sqlmock.NewRows([]string{"name", "email", "phone"}).
			AddRow("Fresh Mart", "owner@freshmart.example", "+919800000001"))

	sesAPI, snsAPI := &fakeSES{}, &fakeSNS{}
	var notifyIn sendordernotification.Input
	vars.into(t, &notifyIn)
	sent, err := sendordernotification.NewHandler(sendordernotification.LoadConfig(appCfg), notifyDB,
		awsclient.NewEmailSenderWithAPI(sesAPI, "orders@mandi.example"),
		awsclient.NewSMSSenderWithAPI(snsAPI, "MANDI"),
		log).Execute(ctx, &notifyIn)
	require.NoError(t, err)
	assert.Equal(t, sendordernotification.StatusSent, sent.Status)
	assert.True(t, sent.Urgent)
	assert.ElementsMatch(t, []string{sendordernotification.ChannelEmail, sendordernotification.ChannelSMS}, sent.Channels)
	require.Len(t, sesAPI.subjects, 1)
	assert.Contains(t, sesAPI.subjects[0], best.Name)
	require.Len(t, snsAPI.messages, 1)
	assert.NoError(t, notifyMock.ExpectationsWereMet())

	// 8. manage-mandi-notifications: the mandi sees the new order.
	listDB, listMock, err := sqlmock.New()
	require.NoError(t, err)
	defer listDB.Close()

	listMock.ExpectQuery(`FROM mandi_notifications WHERE mandi_id = \$1 AND is_read = FALSE`).
		WithArgs(best.ID, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "mandi_id", "order_id", "type", "message", "retailer_name",
			"product_name", "quantity", "total_cost", "distance_km", "is_read", "created_at"}).
			AddRow(order.NotificationID, best.ID, order.OrderID, models.NotificationTypeNewOrder,
				"New order from Fresh Mart", "Fresh Mart", "Tomatoes", 200.0, order.Order.TotalCost,
				order.Order.Distance, false, time.Now()))
	listMock.ExpectQuery(`SELECT COUNT\(\*\) FROM mandi_notifications`).WithArgs(best.ID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mmnCfg, err := managemandinotifications.LoadConfig(appCfg, reg)
	require.NoError(t, err)
	inbox, err := managemandinotifications.NewHandler(mmnCfg, listDB, log).Execute(ctx, &managemandinotifications.Input{
		MandiID: best.ID,
		Action:  managemandinotifications.ActionList,
		Filter:  managemandinotifications.FilterUnread,
	})
	require.NoError(t, err)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, order.OrderID, inbox.Notifications[0].OrderID)
	assert.Equal(t, 1, inbox.UnreadCount)
	assert.NoError(t, listMock.ExpectationsWereMet())
}

// TestPurchasePipeline_NoQualifyingMandi stops after ranking with nothing to
// order when no mandi holds the quantity.
func TestPurchasePipeline_NoQualifyingMandi(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)
	appCfg := testAppConfig()

	catalog, err := mandi.LoadCatalog(catalogPath)
	require.NoError(t, err)

	snapshot, err := loadmandisnapshot.NewHandler(loadmandisnapshot.LoadConfig(appCfg, catalog), nil, nil, log).
		Execute(ctx, &loadmandisnapshot.Input{ProductName: "Tomatoes", Scenario: "scenario2"})
	require.NoError(t, err)

	qualified, err := qualifymandis.NewHandler(qualifymandis.LoadConfig(appCfg), log).Execute(ctx, &qualifymandis.Input{
		Mandis:           snapshot.Mandis,
		ProductName:      "Tomatoes",
		RequiredQuantity: 1_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, qualified.QualifiedCount)
	assert.NotNil(t, qualified.QualifiedMandis)

	metrics, err := calculatemandimetrics.NewHandler(calculatemandimetrics.LoadConfig(appCfg), log).Execute(ctx, &calculatemandimetrics.Input{
		QualifiedMandis:  qualified.QualifiedMandis,
		RequiredQuantity: 1_000_000,
		ResalePrice:      45,
		Requester:        catalog.Retailer.Point(),
	})
	require.NoError(t, err)

	ranked, err := rankmandis.NewHandler(rankmandis.LoadConfig(appCfg), log).Execute(ctx, &rankmandis.Input{
		MandiMetrics: metrics.MandiMetrics,
		Mode:         "profit",
	})
	require.NoError(t, err)
	assert.Empty(t, ranked.RankedMandis)
	assert.Empty(t, ranked.BestMandiID)
}
