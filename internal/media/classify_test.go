package media

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mime string
		ext  string
		want Kind
	}{
		{name: "video mime", mime: "video/mp4", ext: ".mp4", want: KindVideo},
		{name: "audio mime", mime: "audio/mpeg", ext: ".mp3", want: KindAudio},
		{name: "image mime", mime: "image/png", ext: ".png", want: KindImage},
		{name: "mime wins over extension", mime: "video/webm", ext: ".jpg", want: KindVideo},
		{name: "uppercase mime", mime: "VIDEO/MP4", ext: "", want: KindVideo},
		{name: "padded mime", mime: "  image/jpeg  ", ext: "", want: KindImage},
		{name: "octet stream falls back to video ext", mime: "application/octet-stream", ext: ".mkv", want: KindVideo},
		{name: "octet stream falls back to audio ext", mime: "application/octet-stream", ext: ".flac", want: KindAudio},
		{name: "octet stream falls back to image ext", mime: "application/octet-stream", ext: ".webp", want: KindImage},
		{name: "uppercase extension", mime: "", ext: ".MOV", want: KindVideo},
		{name: "no mime no ext", mime: "", ext: "", want: KindOther},
		{name: "document", mime: "application/pdf", ext: ".pdf", want: KindOther},
		{name: "unknown extension", mime: "", ext: ".xyz", want: KindOther},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.mime, tt.ext); got != tt.want {
				t.Errorf("Classify(%q, %q) = %s, want %s", tt.mime, tt.ext, got, tt.want)
			}
		})
	}
}
