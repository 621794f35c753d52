package main

// Simple HTML client, served per game ID.
const gamePageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Quizbox</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; max-width: 640px; }
  h1 { margin-bottom: 0.25rem; }
  #status { margin-bottom: 1rem; font-size: 0.9rem; color: #555; }
  #timer { font-weight: bold; font-size: 1.25rem; }
  #question { margin: 1rem 0; font-size: 1.1rem; }
  #options button { display: block; margin: 0.25rem 0; padding: 0.5rem 1rem; width: 100%; text-align: left; }
  #players li { padding: 0.15rem 0; }
  #feed { margin-top: 1rem; padding: 0; list-style: none; max-height: 14rem; overflow-y: auto; }
  #feed li { padding: 0.2rem 0; border-bottom: 1px solid #eee; font-size: 0.9rem; }
  #master-panel, #guess-panel { margin: 1rem 0; display: none; }
  textarea { width: 100%; height: 6rem; }
  img#qr { margin-top: 0.5rem; }
</style>
</head>
<body>
<h1>Quizbox</h1>
<div id="status">Connecting…</div>
<div id="timer"></div>
<div id="question"></div>
<div id="options"></div>

<div id="guess-panel">
  <input id="guess" placeholder="Your answer">
  <button id="send-guess">Guess</button>
</div>

<div id="master-panel">
  <p>You are the game master. One question per line as <code>question | answer</code>:</p>
  <textarea id="qinput"></textarea>
  <button id="add-questions">Add questions</button>
  <button id="add-ai">Add AI player</button>
  <button id="start">Start game</button>
  <button id="restart" style="display:none">Play again</button>
</div>

<h2>Players</h2>
<ul id="players"></ul>

<button id="share">Share game</button>
<div><img id="qr" style="display:none"></div>

<ul id="feed"></ul>

<script>
(function() {
  const statusEl = document.getElementById('status');
  const timerEl = document.getElementById('timer');
  const questionEl = document.getElementById('question');
  const optionsEl = document.getElementById('options');
  const playersEl = document.getElementById('players');
  const feedEl = document.getElementById('feed');
  const masterPanel = document.getElementById('master-panel');
  const guessPanel = document.getElementById('guess-panel');
  const restartBtn = document.getElementById('restart');

  let isMaster = false;
  let gameOver = false;

  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const wsPath = location.pathname.replace(/\/$/, '') + '/ws';
  const ws = new WebSocket(proto + location.host + wsPath);

  function feed(text) {
    const li = document.createElement('li');
    li.textContent = text;
    feedEl.prepend(li);
    while (feedEl.children.length > 50) {
      feedEl.removeChild(feedEl.lastChild);
    }
  }

  function showPanels() {
    masterPanel.style.display = isMaster ? 'block' : 'none';
    guessPanel.style.display = isMaster ? 'none' : 'block';
    restartBtn.style.display = gameOver && isMaster ? 'inline' : 'none';
  }

  ws.onopen = function() {
    statusEl.textContent = 'Connected.';
    const name = prompt('Enter your name:') || '';
    if (name) {
      ws.send(JSON.stringify({ type: 'join', name: name }));
    }
  };

  ws.onmessage = function(event) {
    let msg;
    try { msg = JSON.parse(event.data); } catch (e) { return; }

    switch (msg.type) {
    case 'session_info':
      isMaster = msg.is_master;
      statusEl.textContent = 'Game ' + msg.game_id + ' - round ' + msg.round + ' of ' + msg.rounds;
      showPanels();
      break;
    case 'players':
      playersEl.innerHTML = '';
      (msg.players || []).forEach(function(p) {
        const li = document.createElement('li');
        li.textContent = p.name + (p.isAI ? ' (AI)' : '') + (p.isMaster ? ' ★' : '') + ' - ' + p.score;
        playersEl.appendChild(li);
      });
      break;
    case 'player_joined':
      feed(msg.name + (msg.isAI ? ' (AI)' : '') + ' joined the game');
      break;
    case 'player_left':
      feed(msg.name + ' left the game');
      break;
    case 'questions_added':
      feed(msg.count + ' question(s) added, ' + msg.total + ' total');
      break;
    case 'question':
      gameOver = false;
      questionEl.textContent = 'Q' + msg.questionNumber + '/' + msg.totalQuestions + ': ' + msg.question;
      optionsEl.innerHTML = '';
      if (msg.isMultipleChoice) {
        (msg.options || []).forEach(function(opt, i) {
          const btn = document.createElement('button');
          btn.textContent = opt;
          btn.onclick = function() {
            ws.send(JSON.stringify({ type: 'guess', optionIndex: i }));
          };
          optionsEl.appendChild(btn);
        });
      }
      timerEl.textContent = msg.timeLimit + 's';
      showPanels();
      break;
    case 'timer':
      timerEl.textContent = msg.timeLeft + 's';
      break;
    case 'wrong_guess':
      feed(msg.message);
      break;
    case 'player_guessed':
      feed(msg.playerName + ' guessed wrong' + (msg.guess ? ' ("' + msg.guess + '")' : '') + ', ' + msg.remainingAttempts + ' attempts left');
      break;
    case 'ai_correct':
      feed(msg.playerName + ' answered: ' + msg.answer);
      break;
    case 'round_ended':
      feed('The answer was "' + msg.answer + '" - ' + msg.winner.name + ' takes the points (round ' + msg.round + '/' + msg.totalRounds + ')');
      timerEl.textContent = '';
      break;
    case 'new_round':
      feed('Round ' + msg.roundNumber + ' of ' + msg.totalRounds + ': ' + msg.newMaster + (msg.isAIMaster ? ' (AI)' : '') + ' is the game master');
      questionEl.textContent = '';
      optionsEl.innerHTML = '';
      break;
    case 'ai_hosting':
      feed(msg.aiName + ' is preparing ' + msg.questionCount + ' questions about "' + msg.topic + '"');
      break;
    case 'new_master':
      feed(msg.masterName + ' is now the game master');
      break;
    case 'game_ended':
      gameOver = true;
      feed('Game over! ' + msg.winner.name + ' wins with ' + msg.winnerScore + ' points');
      questionEl.textContent = '';
      optionsEl.innerHTML = '';
      timerEl.textContent = '';
      showPanels();
      break;
    case 'game_restarted':
      gameOver = false;
      feed('Game restarted by ' + msg.master);
      showPanels();
      break;
    case 'name_taken':
      const retry = prompt(msg.message) || '';
      if (retry) {
        ws.send(JSON.stringify({ type: 'join', name: retry }));
      }
      break;
    case 'error':
      feed('Error: ' + msg.message);
      break;
    }
  };

  ws.onclose = function() {
    statusEl.textContent = 'Disconnected.';
  };

  document.getElementById('send-guess').onclick = function() {
    const input = document.getElementById('guess');
    if (input.value) {
      ws.send(JSON.stringify({ type: 'guess', guess: input.value }));
      input.value = '';
    }
  };

  document.getElementById('add-questions').onclick = function() {
    const lines = document.getElementById('qinput').value.split('\n');
    const questions = [];
    lines.forEach(function(line) {
      const parts = line.split('|');
      if (parts.length === 2) {
        questions.push({ question: parts[0].trim(), answer: parts[1].trim() });
      }
    });
    if (questions.length) {
      ws.send(JSON.stringify({ type: 'add_questions', questions: questions }));
      document.getElementById('qinput').value = '';
    }
  };

  document.getElementById('add-ai').onclick = function() {
    ws.send(JSON.stringify({ type: 'add_ai_player' }));
  };

  document.getElementById('start').onclick = function() {
    ws.send(JSON.stringify({ type: 'start_game' }));
  };

  restartBtn.onclick = function() {
    ws.send(JSON.stringify({ type: 'restart' }));
  };

  document.getElementById('share').onclick = function() {
    const qr = document.getElementById('qr');
    qr.src = location.pathname.replace(/\/$/, '') + '/qr';
    qr.style.display = 'block';
  };
})();
</script>
</body>
</html>
`
