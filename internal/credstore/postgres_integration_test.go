// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package credstore_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/holomush/teamauth/internal/config"
	"github.com/holomush/teamauth/internal/credstore"
	"github.com/holomush/teamauth/internal/team"
)

var _ = Describe("Postgres credential store", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		dsn       string
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("teamauth_test"),
			postgres.WithUsername("teamauth"),
			postgres.WithPassword("teamauth"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		Expect(err).NotTo(HaveOccurred())

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if container != nil {
			_ = container.Terminate(ctx)
		}
	})

	It("reports pending migrations before the schema exists", func() {
		m, err := credstore.NewMigrator(dsn)
		Expect(err).NotTo(HaveOccurred())
		defer m.Close()

		pending, err := m.Pending()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{1}))
	})

	It("round-trips the token after migrating", func() {
		m, err := credstore.NewMigrator(dsn)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Up()).To(Succeed())
		Expect(m.Up()).To(Succeed())
		Expect(m.Close()).To(Succeed())

		store, closer, err := credstore.Open(ctx, config.Store{
			Backend:  config.BackendPostgres,
			Postgres: config.Postgres{DSN: dsn},
		}, nil)
		Expect(err).NotTo(HaveOccurred())
		defer closer.Close()

		_, ok := store.Load()
		Expect(ok).To(BeFalse())

		store.Save("tok1")
		store.Save("tok2")
		token, ok := store.Load()
		Expect(ok).To(BeTrue())
		Expect(token).To(Equal(team.Token("tok2")))

		store.Clear()
		_, ok = store.Load()
		Expect(ok).To(BeFalse())
	})

	It("rolls the schema back", func() {
		m, err := credstore.NewMigrator(dsn)
		Expect(err).NotTo(HaveOccurred())
		defer m.Close()

		Expect(m.Down()).To(Succeed())
		version, dirty, err := m.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())
	})
})
