package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hamzaoui/ayahreels/internal/db"
	"github.com/hamzaoui/ayahreels/internal/models"
	"github.com/hamzaoui/ayahreels/internal/quran"
	"github.com/hamzaoui/ayahreels/internal/queue"
)

// Worker dequeues render jobs and drives the pipeline, recording status
// transitions and outcomes in the reels table. Cancellation is not supported
// mid-pipeline: an abandoned request still runs to completion or failure.
type Worker struct {
	db       *db.DB
	queue    *queue.Queue
	quran    *quran.Client
	pipeline *Pipeline
}

func New(database *db.DB, q *queue.Queue, quranClient *quran.Client, pipeline *Pipeline) *Worker {
	return &Worker{
		db:       database,
		queue:    q,
		quran:    quranClient,
		pipeline: pipeline,
	}
}

// Start begins processing render jobs until the context is cancelled.
func (w *Worker) Start(ctx context.Context, concurrency int) {
	log.Printf("Worker started with concurrency: %d", concurrency)

	for i := 0; i < concurrency; i++ {
		go w.processQueue(ctx)
	}

	<-ctx.Done()
	log.Println("Worker shutting down...")
}

func (w *Worker) processQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				log.Printf("Error dequeuing render job: %v", err)
				continue
			}

			if job == nil {
				continue // No job available, retry
			}

			log.Printf("Processing render job %s (reel: %s)", job.ID, job.ReelID)

			if err := w.handleRenderReel(ctx, job); err != nil {
				log.Printf("Render job %s failed: %v", job.ID, err)
				w.db.UpdateReelError(ctx, job.ReelID, err.Error())
			} else {
				log.Printf("Render job %s completed", job.ID)
			}
		}
	}
}

// handleRenderReel loads the reel record, fetches verse text, and runs the
// pipeline. The reel moves queued → downloading → rendering → completed; any
// error marks it failed with a user-facing message and leaves no partial
// artifact behind.
func (w *Worker) handleRenderReel(ctx context.Context, job *queue.Job) error {
	reel, err := w.db.GetReel(ctx, job.ReelID)
	if err != nil {
		return fmt.Errorf("failed to load reel: %w", err)
	}

	if err := w.db.UpdateReelStatus(ctx, reel.ID, models.ReelStatusDownloading); err != nil {
		return fmt.Errorf("failed to update reel status: %w", err)
	}

	verses, err := w.quran.FetchVerses(ctx, reel.Surah, reel.FromAyah, reel.ToAyah)
	if err != nil {
		return fmt.Errorf("failed to fetch verse text: %w", err)
	}

	renderJob := models.RenderJob{
		ReelID:    reel.ID,
		ReciterID: reel.ReciterID,
		Surah:     reel.Surah,
		FromAyah:  reel.FromAyah,
		ToAyah:    reel.ToAyah,
		Verses:    verses,
		Stamp:     time.Now().UnixMilli(),
	}
	if reel.BackgroundPath != nil {
		renderJob.BackgroundPath = *reel.BackgroundPath
	}

	if err := w.db.UpdateReelStatus(ctx, reel.ID, models.ReelStatusRendering); err != nil {
		return fmt.Errorf("failed to update reel status: %w", err)
	}

	outputPath, err := w.pipeline.Render(ctx, renderJob)
	if err != nil {
		return err
	}

	return w.db.SetReelOutput(ctx, reel.ID, outputPath)
}
