package text_test

import (
	"testing"

	"github.com/talentdb/matchd/internal/domain/text"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTitleSimilarity(t *testing.T) {
	Convey("Given two titles", t, func() {
		Convey("When they are identical", func() {
			v, ok := text.TitleSimilarity("backend engineer", "backend engineer")

			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1.0)
		})

		Convey("When one title contains the other", func() {
			v, ok := text.TitleSimilarity("senior backend engineer", "backend engineer")

			Convey("Then the partial ratio still scores full", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1.0)
			})
		})

		Convey("When the titles are unrelated", func() {
			v, ok := text.TitleSimilarity("florist", "kernel developer")

			So(ok, ShouldBeTrue)
			So(v, ShouldBeLessThan, 0.6)
		})

		Convey("When either title is empty", func() {
			_, ok1 := text.TitleSimilarity("", "backend engineer")
			_, ok2 := text.TitleSimilarity("backend engineer", "")

			Convey("Then the component is absent", func() {
				So(ok1, ShouldBeFalse)
				So(ok2, ShouldBeFalse)
			})
		})

		Convey("When the argument order flips", func() {
			v1, _ := text.TitleSimilarity("data engineer", "senior data engineer")
			v2, _ := text.TitleSimilarity("senior data engineer", "data engineer")

			Convey("Then the result is symmetric", func() {
				So(v1, ShouldEqual, v2)
			})
		})

		Convey("In every case the value stays within [0,1]", func() {
			for _, pair := range [][2]string{
				{"x", "y"}, {"go developer", "golang developer"}, {"a b c", "c b a"},
			} {
				v, _ := text.TitleSimilarity(pair[0], pair[1])
				So(v, ShouldBeBetweenOrEqual, 0.0, 1.0)
			}
		})
	})
}

func TestSemanticSimilarity(t *testing.T) {
	Convey("Given two text blobs", t, func() {
		Convey("When they are identical", func() {
			v, ok := text.SemanticSimilarity("golang kubernetes postgres", "golang kubernetes postgres")

			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1.0)
		})

		Convey("When they share no tokens", func() {
			v, ok := text.SemanticSimilarity("golang kubernetes", "haskell erlang")

			Convey("Then the component is present but scores zero", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 0.0)
			})
		})

		Convey("When half the tokens overlap", func() {
			v, ok := text.SemanticSimilarity("golang kubernetes docker redis", "golang kubernetes rust elixir")

			So(ok, ShouldBeTrue)
			So(v, ShouldAlmostEqual, 0.5)
		})

		Convey("When either blob tokenizes to nothing", func() {
			_, ok1 := text.SemanticSimilarity("", "golang")
			_, ok2 := text.SemanticSimilarity("a an it", "golang")

			Convey("Then the component is absent", func() {
				So(ok1, ShouldBeFalse)
				So(ok2, ShouldBeFalse)
			})
		})
	})
}

func TestTokens(t *testing.T) {
	Convey("Given raw text", t, func() {
		Convey("Tokens are lowercased and short ones dropped", func() {
			tokens := text.Tokens("Go on AND build Services")

			So(tokens, ShouldNotContainKey, "go") // two runes, dropped
			So(tokens, ShouldContainKey, "build")
			So(tokens, ShouldContainKey, "services")
			So(tokens, ShouldNotContainKey, "and")
		})

		Convey("Tech names with symbols survive intact", func() {
			tokens := text.Tokens("C++ and C# plus node.js")

			So(tokens, ShouldContainKey, "c++")
			So(tokens, ShouldNotContainKey, "c#") // two runes, dropped
			So(tokens, ShouldContainKey, "node.js")
		})

		Convey("Trailing sentence dots are stripped", func() {
			tokens := text.Tokens("we use kubernetes.")

			So(tokens, ShouldContainKey, "kubernetes")
			So(tokens, ShouldNotContainKey, "kubernetes.")
		})
	})
}
