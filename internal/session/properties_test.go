// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package session_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/teamauth/internal/credstore"
	"github.com/holomush/teamauth/internal/session"
	"github.com/holomush/teamauth/internal/team"
	"github.com/holomush/teamauth/internal/teamapi"
	"github.com/holomush/teamauth/internal/teamapi/teamapitest"
)

func strPtr(s string) *string { return &s }

func registration(name, email string) team.RegistrationRequest {
	return team.RegistrationRequest{
		TeamName:        name,
		TeamNumber:      strPtr("7845"),
		ContactEmail:    email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

var _ = Describe("Session against the Team API", func() {
	var (
		ctx     context.Context
		server  *teamapitest.Server
		store   *credstore.Memory
		client  *teamapi.Client
		machine *session.Machine
	)

	newMachine := func() *session.Machine {
		client = teamapi.New(server.URL)
		return session.New(client, client.Authenticator(), store)
	}

	BeforeEach(func() {
		ctx = context.Background()
		server = teamapitest.New(GinkgoT())
		store = credstore.NewMemory()
		machine = newMachine()
	})

	Describe("start-up restore", func() {
		It("is idempotent for a valid stored token", func() {
			_, token := server.Seed(GinkgoT(), registration("Ankara Robotics", "a@b.com"))
			store.Save(token)

			Expect(machine.Start(ctx)).To(Succeed())
			first := machine.Snapshot()
			Expect(first.State).To(Equal(session.Authenticated))

			second := newMachine()
			Expect(second.Start(ctx)).To(Succeed())
			Expect(second.Snapshot().Profile).To(Equal(first.Profile))

			stored, ok := store.Load()
			Expect(ok).To(BeTrue())
			Expect(stored).To(Equal(token))
		})

		It("heals an invalid stored token", func() {
			store.Save("not-a-jwt")

			err := machine.Start(ctx)
			Expect(team.KindOf(err)).To(Equal(team.KindAuth))
			Expect(machine.Snapshot().State).To(Equal(session.Unauthenticated))
			Expect(machine.Snapshot().Loading).To(BeFalse())

			_, ok := store.Load()
			Expect(ok).To(BeFalse())

			_, err = client.ListMaterials(ctx)
			Expect(err).To(HaveOccurred())
			last, _ := server.LastRequest()
			Expect(last.Authorization).To(BeEmpty())
		})

		It("heals an expired stored token", func() {
			profile, _ := server.Seed(GinkgoT(), registration("Ankara Robotics", "a@b.com"))
			expired, err := server.IssueToken(profile.ID, profile.TeamName, -time.Minute)
			Expect(err).NotTo(HaveOccurred())
			store.Save(expired)

			Expect(machine.Start(ctx)).NotTo(Succeed())
			_, ok := store.Load()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("login and logout", func() {
		BeforeEach(func() {
			server.Seed(GinkgoT(), registration("Ankara Robotics", "a@b.com"))
			Expect(machine.Start(ctx)).To(Succeed())
		})

		It("signs in and persists the issued token", func() {
			profile, err := machine.Login(ctx, team.Credentials{Email: "a@b.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.TeamName).To(Equal("Ankara Robotics"))

			stored, ok := store.Load()
			Expect(ok).To(BeTrue())
			attached, _ := client.Authenticator().Token()
			Expect(attached).To(Equal(stored))
		})

		It("clears everything on logout", func() {
			_, err := machine.Login(ctx, team.Credentials{Email: "a@b.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())

			machine.Logout()

			Expect(machine.Snapshot().Profile).To(BeNil())
			_, ok := store.Load()
			Expect(ok).To(BeFalse())

			_, err = client.FetchProfile(ctx)
			Expect(err).To(HaveOccurred())
			last, _ := server.LastRequest()
			Expect(last.Authorization).To(BeEmpty())
		})
	})

	Describe("stale responses", func() {
		BeforeEach(func() {
			server.Seed(GinkgoT(), registration("Team A", "a@a.com"))
			server.Seed(GinkgoT(), registration("Team B", "b@b.com"))
		})

		login := func(email string) <-chan error {
			done := make(chan error, 1)
			go func() {
				defer GinkgoRecover()
				_, err := machine.Login(ctx, team.Credentials{Email: email, Password: "secret1"})
				done <- err
			}()
			return done
		}

		It("keeps the later login when the earlier one resolves last", func() {
			gateA := server.Hold(teamapitest.RouteLogin)
			doneA := login("a@a.com")
			Eventually(gateA.Arrived()).Should(BeClosed())

			_, err := machine.Login(ctx, team.Credentials{Email: "b@b.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())

			gateA.Release()
			Eventually(doneA).Should(Receive(WithTransform(team.KindOf, Equal(team.KindSuperseded))))
			Expect(machine.Snapshot().Profile.TeamName).To(Equal("Team B"))
		})

		It("keeps the later login when the earlier one resolves first", func() {
			gateA := server.Hold(teamapitest.RouteLogin)
			gateB := server.Hold(teamapitest.RouteLogin)

			doneA := login("a@a.com")
			Eventually(gateA.Arrived()).Should(BeClosed())
			doneB := login("b@b.com")
			Eventually(gateB.Arrived()).Should(BeClosed())

			gateA.Release()
			Eventually(doneA).Should(Receive(WithTransform(team.KindOf, Equal(team.KindSuperseded))))
			gateB.Release()
			Eventually(doneB).Should(Receive(BeNil()))

			Expect(machine.Snapshot().Profile.TeamName).To(Equal("Team B"))
			stored, _ := store.Load()
			claims, err := stored.Claims()
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.TeamName).To(Equal("Team B"))
		})
	})

	Describe("registration", func() {
		It("rejects mismatched passwords before any request", func() {
			req := registration("Ankara Robotics", "a@b.com")
			req.ConfirmPassword = "different"

			_, err := machine.Register(ctx, req)
			Expect(team.KindOf(err)).To(Equal(team.KindValidation))
			Expect(err.Error()).To(Equal("Şifreler eşleşmiyor"))
			Expect(server.Requests()).To(BeEmpty())
		})

		It("signs in the new team", func() {
			profile, err := machine.Register(ctx, registration("Ankara Robotics", "a@b.com"))
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.ID).NotTo(BeEmpty())
			Expect(machine.Snapshot().State).To(Equal(session.Authenticated))
		})
	})

	Describe("profile round trip", func() {
		It("reflects an update on the next fetch", func() {
			_, err := machine.Register(ctx, registration("Ankara Robotics", "a@b.com"))
			Expect(err).NotTo(HaveOccurred())

			updated, err := machine.UpdateProfile(ctx, team.ProfileUpdate{
				Website:  strPtr("https://ankara.example.org"),
				Location: strPtr("Ankara"),
			})
			Expect(err).NotTo(HaveOccurred())

			fetched, err := client.FetchProfile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.Website).To(Equal(updated.Website))
			Expect(fetched.Location).To(Equal(updated.Location))
			Expect(machine.Snapshot().Profile.Website).To(Equal(updated.Website))

			refreshed, err := machine.RefreshProfile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.Location).To(Equal(strPtr("Ankara")))
		})
	})
})
