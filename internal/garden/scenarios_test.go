package garden_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bloomsim/internal/dice"
	"github.com/san-kum/bloomsim/internal/garden"
)

var _ = Describe("Field.DailyBreed", func() {
	var (
		src   *dice.Scripted
		field *garden.Field
	)

	plant := func(w, h int, cells ...garden.Pos) {
		var err error
		field, err = garden.New(w, h, src)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range cells {
			Expect(field.SpawnParent(p)).To(Succeed())
		}
	}

	Context("two adjacent flowers on a 1x2 field", func() {
		BeforeEach(func() {
			src = dice.NewScripted(0, 0)
			plant(1, 2, garden.Pos{X: 0, Y: 0}, garden.Pos{X: 0, Y: 1})
		})

		It("fails both attempts without touching the field", func() {
			res, err := field.DailyBreed()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(garden.DailyResult{Fails: 2}))
			Expect(field.String()).To(Equal("P\nP"))
			Expect(src.Remaining()).To(BeZero())
		})

		It("keeps failed flowers available with their counters", func() {
			_, err := field.DailyBreed()
			Expect(err).NotTo(HaveOccurred())
			for _, p := range []garden.Pos{{X: 0, Y: 0}, {X: 0, Y: 1}} {
				fl, err := field.Flower(p)
				Expect(err).NotTo(HaveOccurred())
				Expect(fl.Available).To(BeTrue())
				Expect(fl.Counter).To(BeZero())
			}
		})
	})

	Context("two flowers sharing one free cell on a 3x1 field", func() {
		DescribeTable("exactly one duplicate and one fail regardless of order",
			func(perm []int, want string) {
				src = dice.NewScripted(0, 0, 0).WithPerm(perm...)
				plant(3, 1, garden.Pos{X: 0, Y: 0}, garden.Pos{X: 2, Y: 0})

				res, err := field.DailyBreed()
				Expect(err).NotTo(HaveOccurred())
				Expect(res).To(Equal(garden.DailyResult{Duplicates: 1, Fails: 1}))
				Expect(field.String()).To(Equal(want))
				Expect(field.Census()).To(Equal(garden.Census{Parents: 2, Children: 1}))
			},
			Entry("left first", []int{0, 1}, "PcP"),
			Entry("right first", []int{1, 0}, "PcP"),
		)

		It("resets only the breeder", func() {
			src = dice.NewScripted(0, 0, 0)
			plant(3, 1, garden.Pos{X: 0, Y: 0}, garden.Pos{X: 2, Y: 0})
			field.IncrementCounters()

			_, err := field.DailyBreed()
			Expect(err).NotTo(HaveOccurred())

			left, _ := field.Flower(garden.Pos{X: 0, Y: 0})
			right, _ := field.Flower(garden.Pos{X: 2, Y: 0})
			Expect(left.Counter).To(BeZero())
			Expect(left.Available).To(BeFalse())
			Expect(right.Counter).To(Equal(1))
			Expect(right.Available).To(BeTrue())
		})
	})

	Context("an isolated flower with no neighbours in bounds", func() {
		BeforeEach(func() {
			src = dice.NewScripted(0)
			plant(1, 1, garden.Pos{X: 0, Y: 0})
		})

		It("records a fail and leaves the field unchanged", func() {
			res, err := field.DailyBreed()
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(garden.DailyResult{Fails: 1}))
			Expect(field.String()).To(Equal("P"))
		})
	})

	Context("across days", func() {
		It("clears children before the next pass", func() {
			src = dice.NewScripted(0, 0, 0)
			plant(3, 1, garden.Pos{X: 0, Y: 0}, garden.Pos{X: 2, Y: 0})

			_, err := field.DailyBreed()
			Expect(err).NotTo(HaveOccurred())
			Expect(field.Census().Children).To(Equal(1))

			field.RemoveChildren()
			field.IncrementCounters()
			Expect(field.Census()).To(Equal(garden.Census{Parents: 2}))
			Expect(field.String()).To(Equal("P.P"))
		})
	})

	Context("with a seeded source", func() {
		It("replays the same history", func() {
			history := func() []garden.DailyResult {
				f, err := garden.New(11, 4, dice.New(5, 2))
				Expect(err).NotTo(HaveOccurred())
				for x := 0; x <= 10; x += 2 {
					Expect(f.SpawnParent(garden.Pos{X: x, Y: 0})).To(Succeed())
					Expect(f.SpawnParent(garden.Pos{X: x, Y: 1})).To(Succeed())
				}
				var out []garden.DailyResult
				for range 20 {
					res, err := f.DailyBreed()
					Expect(err).NotTo(HaveOccurred())
					out = append(out, res)
					f.RemoveChildren()
					f.IncrementCounters()
				}
				return out
			}

			Expect(history()).To(Equal(history()))
		})
	})
})
