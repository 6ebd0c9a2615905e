//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/staybook/service-booking/internal/application"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	bookingEvents "github.com/staybook/service-booking/internal/events"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/database"
	"github.com/staybook/service-booking/internal/platform/kafka"
	"github.com/staybook/service-booking/internal/platform/rabbitmq"
	"github.com/staybook/service-booking/internal/repository"
)

const auditQueue = "booking.audit.test"

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	RabbitURL    string
	Cleanup      func()
}

// bookingStack holds wired-up service components.
type bookingStack struct {
	Accounts  *application.AccountService
	Hotels    *application.HotelService
	Bookings  *application.BookingService
	Scheduler *bookingEvents.SchedulerEventConsumer
	Audit     *bookingEvents.AuditConsumer
	Cleanup   func()
}

// setupContainers starts PostgreSQL, Kafka and RabbitMQ testcontainers, applies
// the SQL migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pgConfig := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Int(),
		User:     "test",
		Password: "test",
		DBName:   "test_booking",
		SSLMode:  "disable",
	}

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(pgConfig, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(pgConfig.DatabaseURL(), "migrations", logger))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, application.TopicBookingEvents, application.TopicSchedulerEvents)

	rabbitContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor: wait.ForLog("Server startup complete").
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start RabbitMQ container")

	rabbitHost, err := rabbitContainer.Host(ctx)
	require.NoError(t, err)
	rabbitPort, err := rabbitContainer.MappedPort(ctx, "5672")
	require.NoError(t, err)

	cleanup := func() {
		for name, c := range map[string]testcontainers.Container{
			"RabbitMQ":   rabbitContainer,
			"Kafka":      kafkaContainer,
			"PostgreSQL": pgContainer,
		} {
			if err := c.Terminate(ctx); err != nil {
				t.Logf("failed to terminate %s container: %v", name, err)
			}
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		RabbitURL:    fmt.Sprintf("amqp://guest:guest@%s:%s/", rabbitHost, rabbitPort.Port()),
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires the services the way cmd/server does.
func setupBookingStack(t *testing.T, infra *testInfra) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	bookingRepo := repository.NewGormBookingRepository(infra.DB)
	hotelRepo := repository.NewGormHotelRepository(infra.DB)
	auditRepo := repository.NewGormAuditRepository(infra.DB)

	producer := kafka.NewProducer(infra.KafkaBrokers, logger)
	publisher := rabbitmq.NewPublisher(infra.RabbitURL, auditQueue, logger)

	jwtManager := auth.NewJWTManager("integration-secret", 15*time.Minute, "staybook-test")
	accounts := application.NewAccountService(repository.NewGormUserRepository(infra.DB), jwtManager, bcrypt.MinCost, logger)
	hotels := application.NewHotelService(hotelRepo, logger)
	bookings := application.NewBookingService(
		bookingRepo,
		hotelRepo,
		bookingDomain.NewNightlyPricingStrategy(),
		accounts.Guest,
		auditRepo,
		application.BookingPolicy{},
		producer,
		publisher,
		logger,
	)

	groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])

	return &bookingStack{
		Accounts:  accounts,
		Hotels:    hotels,
		Bookings:  bookings,
		Scheduler: bookingEvents.NewSchedulerEventConsumer(infra.KafkaBrokers, groupID, bookings, logger),
		Audit:     bookingEvents.NewAuditConsumer(infra.RabbitURL, auditQueue, auditRepo, logger),
		Cleanup: func() {
			_ = producer.Close()
			_ = publisher.Close()
		},
	}
}

// seedRoomType creates an owner, an approved hotel and a room type with the
// given inventory. It returns the hotel and room type IDs.
func seedRoomType(t *testing.T, stack *bookingStack, totalRooms int) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	owner, err := stack.Accounts.CreateOwner(ctx, application.RegisterRequest{
		Email:    fmt.Sprintf("owner-%s@example.com", uuid.New().String()[:8]),
		Password: "owner-password",
		Name:     "Meera",
	})
	require.NoError(t, err)
	ownerIdentity := auth.Identity{UserID: owner.ID, Role: auth.RoleOwner}

	hotel, err := stack.Hotels.CreateHotel(ctx, ownerIdentity, application.HotelRequest{
		Name: "Backwater Retreat",
		City: "Alleppey",
	})
	require.NoError(t, err)
	_, err = stack.Hotels.ApproveHotel(ctx, hotel.ID)
	require.NoError(t, err)

	room, err := stack.Hotels.AddRoomType(ctx, ownerIdentity, hotel.ID, application.RoomTypeRequest{
		Name:               "Houseboat Suite",
		PricePerNightCents: 800000,
		Capacity:           2,
		TotalRooms:         totalRooms,
	})
	require.NoError(t, err)
	return hotel.ID, room.ID
}

// registerGuest signs up a customer and returns their identity.
func registerGuest(t *testing.T, stack *bookingStack) auth.Identity {
	t.Helper()
	res, err := stack.Accounts.Register(context.Background(), application.RegisterRequest{
		Email:    fmt.Sprintf("guest-%s@example.com", uuid.New().String()[:8]),
		Password: "guest-password",
		Name:     "Ravi",
	})
	require.NoError(t, err)
	return auth.Identity{UserID: res.User.ID, Role: auth.RoleUser}
}

// seedOverdueBooking inserts a CONFIRMED booking whose check-out has passed.
// Stays in the past cannot be created through the service.
func seedOverdueBooking(t *testing.T, db *gorm.DB, guest auth.Identity, hotelID, roomTypeID uuid.UUID) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	checkOut := now.AddDate(0, 0, -1).Truncate(24 * time.Hour)
	confirmed := now.AddDate(0, 0, -5)

	model := repository.BookingModel{
		ID:                 uuid.New(),
		Reference:          fmt.Sprintf("HB-%s", uuid.New().String()[:8]),
		UserID:             guest.UserID,
		HotelID:            hotelID,
		RoomTypeID:         roomTypeID,
		Status:             string(bookingDomain.StatusConfirmed),
		CheckInDate:        checkOut.AddDate(0, 0, -2),
		CheckOutDate:       checkOut,
		Adults:             2,
		Rooms:              1,
		PricePerNightCents: 800000,
		TotalPriceCents:    1600000,
		Currency:           "INR",
		ConfirmedAt:        &confirmed,
		Version:            2,
		CreatedAt:          confirmed,
		UpdatedAt:          confirmed,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed booking")
	return model.ID
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		err := db.Where("id = ?", bookingID).First(&model).Error
		if err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
