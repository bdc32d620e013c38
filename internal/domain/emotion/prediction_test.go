package emotion_test

import (
	"testing"

	"github.com/okian/emotion/internal/domain/emotion"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSelectDocument(t *testing.T) {
	Convey("Given a prediction list", t, func() {
		Convey("When it is empty", func() {
			_, ok := emotion.SelectDocument(nil)
			So(ok, ShouldBeFalse)
		})

		Convey("When a document-level entry follows targeted ones", func() {
			preds := []emotion.Prediction{
				{Target: "cats", Emotion: map[string]float64{"fear": 0.9}},
				{Target: "", Emotion: map[string]float64{"joy": 0.8}},
				{Target: "", Emotion: map[string]float64{"anger": 0.7}},
			}

			Convey("Then the first document-level entry is chosen", func() {
				p, ok := emotion.SelectDocument(preds)
				So(ok, ShouldBeTrue)
				So(p.IsDocument(), ShouldBeTrue)
				So(p.Emotion["joy"], ShouldEqual, 0.8)
			})
		})

		Convey("When no entry is document-level", func() {
			preds := []emotion.Prediction{
				{Target: "dogs", Emotion: map[string]float64{"sadness": 0.6}},
				{Target: "cats", Emotion: map[string]float64{"fear": 0.9}},
			}

			Convey("Then the first entry is the fallback", func() {
				p, ok := emotion.SelectDocument(preds)
				So(ok, ShouldBeTrue)
				So(p.Target, ShouldEqual, "dogs")
			})
		})
	})
}

func TestFromPredictions(t *testing.T) {
	Convey("Given classifier predictions", t, func() {
		Convey("When the list is empty", func() {
			s := emotion.FromPredictions([]emotion.Prediction{})

			Convey("Then the zero record is returned", func() {
				So(s.Kind(), ShouldEqual, emotion.KindZero)
			})
		})

		Convey("When keys are missing", func() {
			s := emotion.FromPredictions([]emotion.Prediction{
				{Emotion: map[string]float64{"joy": 0.4, "surprise": 0.99}},
			})

			Convey("Then missing keys default to 0.0 and unknown keys are ignored", func() {
				values, ok := s.Values()
				So(ok, ShouldBeTrue)
				So(values, ShouldResemble, [emotion.Count]float64{0, 0, 0, 0.4, 0})
				d, _ := s.Dominant()
				So(d, ShouldEqual, emotion.Joy)
			})
		})

		Convey("When the emotion mapping is nil", func() {
			s := emotion.FromPredictions([]emotion.Prediction{{Target: "x"}})

			Convey("Then scores are zero and anger wins the tie", func() {
				So(s.Kind(), ShouldEqual, emotion.KindScored)
				d, _ := s.Dominant()
				So(d, ShouldEqual, emotion.Anger)
			})
		})
	})
}

func TestMessage(t *testing.T) {
	Convey("Given records to render", t, func() {
		Convey("When the record is the absent sentinel", func() {
			So(emotion.Message(emotion.Absent()), ShouldEqual, emotion.InvalidTextMessage)
		})

		Convey("When the record has no dominant emotion", func() {
			So(emotion.Message(emotion.Zero()), ShouldEqual, emotion.InvalidTextMessage)
		})

		Convey("When the record is populated", func() {
			s := emotion.NewScores([emotion.Count]float64{0.006, 0.0025, 0.009, 0.968, 0.049})

			Convey("Then the full sentence is rendered", func() {
				So(emotion.Message(s), ShouldEqual,
					"For the given statement, the system response is 'anger': 0.006, 'disgust': 0.0025, "+
						"'fear': 0.009, 'joy': 0.968 and 'sadness': 0.049. The dominant emotion is joy.")
			})
		})

		Convey("When scores are whole numbers", func() {
			s := emotion.NewScores([emotion.Count]float64{1, 0, 0, 0, 0})

			Convey("Then they keep a decimal point", func() {
				So(emotion.Message(s), ShouldContainSubstring, "'anger': 1.0, 'disgust': 0.0")
			})
		})
	})
}
