package mpeg

/*
#cgo pkg-config: libavformat libavcodec libavutil libswscale

#include <stdlib.h>
#include <stdio.h>
#include <libavformat/avformat.h>
#include <libavcodec/avcodec.h>
#include <libavutil/imgutils.h>
#include <libswscale/swscale.h>
#include <libavutil/log.h>

typedef struct {
    AVFormatContext *formatCtx;
    AVCodecContext  *codecCtx;
    AVFrame         *frame;
    AVFrame         *frameRGBA;
    struct SwsContext *swsCtx;
    int             videoStream;
    int             draining;
    uint8_t         *bufferRGBA;
} Decoder;

// Open filename and prepare an RGBA conversion of its first video stream.
// VIDEO_DECODER may name a preferred decoder; it is used only when it
// matches the stream codec.
int init_decoder(const char *filename, Decoder *d) {
    av_log_set_level(AV_LOG_ERROR);
    d->videoStream = -1;

    if (avformat_open_input(&d->formatCtx, filename, NULL, NULL) != 0) {
        fprintf(stderr, "Could not open input file '%s'\n", filename);
        return -1;
    }
    if (avformat_find_stream_info(d->formatCtx, NULL) < 0) {
        return -2;
    }

    int stream = av_find_best_stream(d->formatCtx, AVMEDIA_TYPE_VIDEO, -1, -1, NULL, 0);
    if (stream < 0) {
        return -3;
    }
    d->videoStream = stream;
    AVCodecParameters *par = d->formatCtx->streams[stream]->codecpar;

    const AVCodec *codec = NULL;
    const char *preferred = getenv("VIDEO_DECODER");
    if (preferred && preferred[0] != '\0') {
        codec = avcodec_find_decoder_by_name(preferred);
        if (codec && codec->id != par->codec_id) {
            codec = NULL;
        }
    }
    if (!codec) {
        codec = avcodec_find_decoder(par->codec_id);
    }
    if (!codec) {
        return -3;
    }

    d->codecCtx = avcodec_alloc_context3(codec);
    if (!d->codecCtx) {
        return -4;
    }
    avcodec_parameters_to_context(d->codecCtx, par);
    d->codecCtx->thread_type = FF_THREAD_FRAME;
    d->codecCtx->thread_count = 0;
    if (avcodec_open2(d->codecCtx, codec, NULL) < 0) {
        return -4;
    }

    d->frame = av_frame_alloc();
    d->frameRGBA = av_frame_alloc();

    int width  = d->codecCtx->width;
    int height = d->codecCtx->height;
    int numBytes = av_image_get_buffer_size(AV_PIX_FMT_RGBA, width, height, 1);
    d->bufferRGBA = (uint8_t *)av_malloc(numBytes * sizeof(uint8_t));
    av_image_fill_arrays(d->frameRGBA->data, d->frameRGBA->linesize, d->bufferRGBA, AV_PIX_FMT_RGBA, width, height, 1);

    d->swsCtx = sws_getContext(width, height, d->codecCtx->pix_fmt,
                               width, height, AV_PIX_FMT_RGBA,
                               SWS_BILINEAR, NULL, NULL, NULL);
    return 0;
}

// Decode a single frame. Returns 1 on success, 0 on EOF, negative on error.
// At end of file the decoder is drained so its buffered frames are not lost.
int decode_frame(Decoder *d, uint8_t **rgba_data) {
    AVPacket *packet = av_packet_alloc();
    if (!packet) {
        return -1;
    }
    int result = 0;

    for (;;) {
        int ret = avcodec_receive_frame(d->codecCtx, d->frame);
        if (ret == 0) {
            sws_scale(d->swsCtx,
                      (const uint8_t * const*)d->frame->data, d->frame->linesize,
                      0, d->codecCtx->height,
                      d->frameRGBA->data, d->frameRGBA->linesize);
            *rgba_data = d->frameRGBA->data[0];
            result = 1;
            break;
        }
        if (ret == AVERROR_EOF) {
            result = 0;
            break;
        }
        if (ret != AVERROR(EAGAIN)) {
            result = -2;
            break;
        }
        if (d->draining) {
            // a drained decoder never asks for more input
            result = 0;
            break;
        }

        if (av_read_frame(d->formatCtx, packet) < 0) {
            d->draining = 1;
            if (avcodec_send_packet(d->codecCtx, NULL) < 0) {
                result = 0;
                break;
            }
            continue;
        }
        if (packet->stream_index != d->videoStream) {
            av_packet_unref(packet);
            continue;
        }
        ret = avcodec_send_packet(d->codecCtx, packet);
        av_packet_unref(packet);
        if (ret < 0 && ret != AVERROR(EAGAIN)) {
            result = -1;
            break;
        }
    }

    av_packet_free(&packet);
    return result;
}

// Seek back to the first frame and drop any buffered decoder state.
int seek_start(Decoder *d) {
    if (av_seek_frame(d->formatCtx, d->videoStream, 0, AVSEEK_FLAG_BACKWARD) < 0) {
        return -1;
    }
    avcodec_flush_buffers(d->codecCtx);
    d->draining = 0;
    return 0;
}

void close_decoder(Decoder *d) {
    if (!d) return;
    sws_freeContext(d->swsCtx);
    av_free(d->bufferRGBA);
    av_frame_free(&d->frameRGBA);
    av_frame_free(&d->frame);
    avcodec_free_context(&d->codecCtx);
    if (d->formatCtx) {
        avformat_close_input(&d->formatCtx);
    }
}

double decoder_fps(Decoder *d) {
    if (!d || d->videoStream < 0) {
        return 0;
    }
    AVStream *st = d->formatCtx->streams[d->videoStream];
    AVRational r = av_guess_frame_rate(d->formatCtx, st, NULL);
    if (r.den == 0) {
        return 0;
    }
    return av_q2d(r);
}
*/
import "C"

import (
	"fmt"
	"io"
	"unsafe"
)

type videoDecoder struct {
	cdec   C.Decoder
	width  int
	height int
	fps    float64
}

func newVideoDecoder(path string) (*videoDecoder, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	dec := &videoDecoder{}
	if ret := C.init_decoder(cPath, &dec.cdec); ret != 0 {
		C.close_decoder(&dec.cdec)
		return nil, fmt.Errorf("init_decoder %s failed (code=%d)", path, int(ret))
	}

	dec.width = int(dec.cdec.codecCtx.width)
	dec.height = int(dec.cdec.codecCtx.height)
	dec.fps = float64(C.decoder_fps(&dec.cdec))
	if dec.fps <= 0 {
		dec.fps = 30 // sensible default if not available
	}
	return dec, nil
}

// nextFrame returns the next RGBA frame or io.EOF
func (d *videoDecoder) nextFrame() ([]byte, error) {
	var data *C.uint8_t
	ret := C.decode_frame(&d.cdec, &data)
	switch {
	case ret == 0:
		return nil, io.EOF
	case ret < 0:
		return nil, fmt.Errorf("decode error (code=%d)", int(ret))
	}

	bufLen := d.width * d.height * 4 // RGBA
	return C.GoBytes(unsafe.Pointer(data), C.int(bufLen)), nil
}

func (d *videoDecoder) rewind() error {
	if ret := C.seek_start(&d.cdec); ret != 0 {
		return fmt.Errorf("seek to start failed (code=%d)", int(ret))
	}
	return nil
}

func (d *videoDecoder) close() {
	C.close_decoder(&d.cdec)
}
